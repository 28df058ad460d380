package main

import (
	"errors"
	"math/rand"
	"strings"
	"time"
)

var codeLetters = strings.Split("ABCDEFGHIJKLMNOPQRSTUVWXYZ", "")

const (
	defaultCodeLength  = 6
	attemptsPerLength  = 32
	maxLengthWidenings = 3
)

var ErrAllocationExhausted = errors.New("no free room code within retry bound")

type CodeAllocator struct {
	length int
	rand   *rand.Rand
}

func NewCodeAllocator(length int) *CodeAllocator {
	if length <= 0 {
		length = defaultCodeLength
	}
	return &CodeAllocator{length: length, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (a *CodeAllocator) randomCode(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteString(codeLetters[a.rand.Intn(len(codeLetters))])
	}
	return b.String()
}

// Allocate draws codes until one is free according to taken. Collisions at
// the configured length are retried a fixed number of times, then the
// length is widened by one character, so near-exhaustion of the code space
// degrades the code format instead of the latency.
func (a *CodeAllocator) Allocate(taken func(string) bool) (string, error) {
	for widening := 0; widening <= maxLengthWidenings; widening++ {
		length := a.length + widening
		for attempt := 0; attempt < attemptsPerLength; attempt++ {
			code := a.randomCode(length)
			if !taken(code) {
				return code, nil
			}
		}
	}
	return "", ErrAllocationExhausted
}
