// Package domain defines domain-level errors for the narrative feature.
package domain

import "errors"

// ErrNarrativeUnavailable indicates that the text-generation provider failed
// (network, auth, rate limit) or returned no text. It is never fatal to a report.
var ErrNarrativeUnavailable = errors.New("narrative unavailable")

// UserMessage はナラティブ生成失敗時のエンドユーザー向けメッセージを返します。
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return "The AI commentary is unavailable right now. Market data is still shown below."
}
