// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"errors"
)

// ErrorKind groups errors by how callers should report them.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindNotFound
	KindStaleState
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindStaleState:
		return "stale_state"
	default:
		return "unknown"
	}
}

var (
	ErrNotRegistered      = errors.New("player is not registered")
	ErrNameTaken          = errors.New("player name is already in use")
	ErrAlreadyAdmitted    = errors.New("player is already queued or in a match")
	ErrNotInMatch         = errors.New("player is not in an active match")
	ErrMatchNotActive     = errors.New("match has not started yet")
	ErrAlreadyChosen      = errors.New("mission already chosen, wait for the round to end")
	ErrInvalidMissionType = errors.New("mission type must be individual or collective")
	ErrMatchStarted       = errors.New("match already started")
	ErrMatchFull          = errors.New("match is full")
	ErrInvalidConfig      = errors.New("invalid configuration")

	ErrPlayerNotFound = errors.New("player not found")
	ErrMatchNotFound  = errors.New("match not found")

	ErrStaleMatch = errors.New("match no longer exists")
)

var errorKinds = map[error]ErrorKind{
	ErrNotRegistered:      KindValidation,
	ErrNameTaken:          KindValidation,
	ErrAlreadyAdmitted:    KindValidation,
	ErrNotInMatch:         KindValidation,
	ErrMatchNotActive:     KindValidation,
	ErrAlreadyChosen:      KindValidation,
	ErrInvalidMissionType: KindValidation,
	ErrMatchStarted:       KindValidation,
	ErrMatchFull:          KindValidation,
	ErrInvalidConfig:      KindValidation,
	ErrPlayerNotFound:     KindNotFound,
	ErrMatchNotFound:      KindNotFound,
	ErrStaleMatch:         KindStaleState,
}

var errorCodes = map[error]int{
	ErrNotRegistered:      520101,
	ErrNameTaken:          520102,
	ErrAlreadyAdmitted:    520103,
	ErrNotInMatch:         520104,
	ErrMatchNotActive:     520105,
	ErrAlreadyChosen:      520106,
	ErrInvalidMissionType: 520107,
	ErrMatchStarted:       520108,
	ErrMatchFull:          520109,
	ErrInvalidConfig:      520110,
	ErrPlayerNotFound:     520401,
	ErrMatchNotFound:      520402,
	ErrStaleMatch:         520409,
}

// KindOf classifies err, unwrapping as needed.
func KindOf(err error) ErrorKind {
	for sentinel, kind := range errorKinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindUnknown
}

// ErrorCode returns a code for the error.
// It returns 20002 if the error is not registered in the map.
func ErrorCode(err error) int {
	for sentinel, code := range errorCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return 20002
}
