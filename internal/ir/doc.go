// Package ir provides the value representation shared by catalogs, submissions
// and results.
//
// This package contains type definitions and serialization only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Integers are arbitrary precision (IRInt wraps math/big) and are compared
//     through their canonical decimal string, never as floats
//   - NO float types anywhere; catalogs and JSON decoding reject them
//   - Values are immutable once constructed
//   - All JSON tags use snake_case
package ir
