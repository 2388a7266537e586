package respond

import (
	"regexp"
)

var (
	// クエリ文字列の API キー / トークン (apiKey=, api-key=, token=, apikey=)
	queryKeyPattern = regexp.MustCompile(`(?i)(api[-_]?key|token)=([^&\s"]+)`)

	// Authorization ヘッダーの Bearer トークン
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-z0-9\-_.]+`)

	// データベースパスワードパターン（DSN内）
	dbPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)
)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString masks provider keys, bearer tokens and DSN passwords in s.
func SanitizeString(s string) string {
	s = queryKeyPattern.ReplaceAllString(s, "$1=****")
	s = bearerPattern.ReplaceAllString(s, "Bearer ****")
	s = dbPasswordPattern.ReplaceAllString(s, "://$1:****@")
	return s
}
