package usecase

import (
	"math"
	"strconv"
	"strings"
)

const (
	// MinRating と MaxRating は評価値の許容範囲です（10点満点）。
	MinRating = 0.0
	MaxRating = 10.0
)

// ValidateTitle は検索タイトルの前後の空白を除去し、空でないことを検証します。
func ValidateTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", newValidationError("title", "title is required")
	}
	return t, nil
}

// ParseRating はフォームから送られた評価文字列を数値に変換します。
// 小数点にカンマを使うロケール（例: "7,5"）にも対応するため、パース前に "," を "." に置き換えます。
// 空文字列の場合は未評価としてnilを返します。
func ParseRating(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, newValidationError("rating", "rating must be a number, e.g. 7,5")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, newValidationError("rating", "rating must be a finite number")
	}
	if v < MinRating || v > MaxRating {
		return nil, newValidationError("rating", "rating must be between 0 and 10")
	}
	return &v, nil
}

// NormalizeReview trims the review text; an empty review clears the stored one.
func NormalizeReview(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

// ParseID はクエリパラメータのIDを正の整数として解釈します。
// field はエラー時にどのパラメータが不正だったかを示すために使われます。
func ParseID(field, raw string) (uint64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, newValidationError(field, "id is required")
	}
	id, err := strconv.ParseUint(s, 10, 63)
	if err != nil || id == 0 {
		return 0, newValidationError(field, "id must be a positive integer")
	}
	return id, nil
}
