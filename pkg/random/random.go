// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package random is the single entry point for randomness in the game: skill draws,
// mission draws and dice. Everything takes a Source or Dice so tests can script them.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
)

// Source picks a uniform integer in [0, n).
type Source interface {
	Intn(n int) int
}

// Dice throws one six-sided die.
type Dice interface {
	Roll() int
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a goroutine-safe Source seeded with seed.
func NewSource(seed int64) Source {
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

type die struct {
	src Source
}

func NewDice(src Source) Dice {
	return die{src: src}
}

func (d die) Roll() int {
	return d.src.Intn(constants.DieSides) + 1
}

// Scripted is a Source that replays values in order, wrapping around at the end.
// Each value is reduced modulo n.
type Scripted struct {
	mu     sync.Mutex
	values []int
	next   int
}

func NewScripted(values ...int) *Scripted {
	if len(values) == 0 {
		values = []int{0}
	}
	return &Scripted{values: values}
}

func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

// ScriptedDice returns the given faces in order, wrapping around at the end.
type ScriptedDice struct {
	mu    sync.Mutex
	faces []int
	rolls int
}

func NewScriptedDice(faces ...int) *ScriptedDice {
	if len(faces) == 0 {
		faces = []int{1}
	}
	return &ScriptedDice{faces: faces}
}

func (d *ScriptedDice) Roll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	face := d.faces[d.rolls%len(d.faces)]
	d.rolls++
	return face
}

// Rolls reports how many dice have been thrown so far.
func (d *ScriptedDice) Rolls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rolls
}
