package token

import "fmt"

//Recorder captures a balanced token span so it can be replayed later with no
//information loss. Polymorphic dispatch buffers field values this way until
//the discriminator key is seen.
type Recorder struct {
	tokens []Token
}

// Record consumes exactly one balanced JSON value from the stream, starting
// with the supplied current token, and appends its tokens to the recorder.
func (r *Recorder) Record(current Token, stream Stream) error {
	depth := 0
	tok := current
	for {
		switch tok.Kind {
		case StartObject, StartArray:
			depth++
		case EndObject, EndArray:
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced token span: %v", tok.Kind)
			}
		case EOF:
			return fmt.Errorf("unexpected end of input in token span")
		}
		r.tokens = append(r.tokens, tok)
		if depth == 0 {
			return nil
		}
		var err error
		if tok, err = stream.Next(); err != nil {
			return err
		}
	}
}

// Tokens returns the captured span.
func (r *Recorder) Tokens() []Token {
	return r.tokens
}

//replay serves a captured token slice as a Stream
type replay struct {
	tokens []Token
	offset int
}

// Replay returns a Stream serving the captured tokens followed by EOF.
func Replay(tokens []Token) Stream {
	return &replay{tokens: tokens}
}

func (r *replay) Next() (Token, error) {
	if r.offset >= len(r.tokens) {
		return Token{Kind: EOF}, nil
	}
	tok := r.tokens[r.offset]
	r.offset++
	return tok, nil
}
