// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mathutil

import "cmp"

// Number is anything credits or skill levels are counted in.
type Number interface {
	~int | ~int64 | ~float64
}

// MaxOf returns the largest value in values, or the zero value for an empty slice.
func MaxOf[T cmp.Ordered](values []T) T {
	var best T
	for i, v := range values {
		if i == 0 || v > best {
			best = v
		}
	}
	return best
}

// SumBy adds up f over every item.
func SumBy[E any, T Number](items []E, f func(E) T) T {
	var total T
	for _, item := range items {
		total += f(item)
	}
	return total
}
