// Package conv converts raw JSON scalar literals to and from typed Go
// values. Fixed width integers are overflow checked, big integers and big
// decimals never overflow, and time values parse leniently but always format
// as RFC 3339.
package conv
