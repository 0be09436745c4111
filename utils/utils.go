package utils

import (
	"math/rand"
	"time"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// ContainsString returns true iff the provided string slice hay contains string
// needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// RemoveString returns hay with every occurrence of needle removed, preserving
// the order of the remaining elements.
func RemoveString(hay []string, needle string) []string {
	res := []string{}
	for _, str := range hay {
		if str != needle {
			res = append(res, str)
		}
	}
	return res
}

// RandomAlphabetString generates a random lowercase string of length n.
func RandomAlphabetString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}
