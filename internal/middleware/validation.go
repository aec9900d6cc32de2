package middleware

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxPostIDLen    = 36  // posts.id VARCHAR(36)
	MaxAccountIDLen = 36  // accounts.id VARCHAR(36)
	MaxCommentLen   = 500 // engagements.body VARCHAR(500)
)

// idRe matches UUIDs and other url-safe identifiers.
var idRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidatePostID checks that a post ID is well-formed and within DB limits.
func ValidatePostID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "postId is required"
	}
	if len(id) > MaxPostIDLen {
		return "", "postId must be at most 36 characters"
	}
	if !idRe.MatchString(id) {
		return "", "postId contains invalid characters"
	}
	return id, ""
}

// ValidateAccountID checks that an account/creator ID is well-formed.
func ValidateAccountID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "accountId is required"
	}
	if len(id) > MaxAccountIDLen {
		return "", "accountId must be at most 36 characters"
	}
	if !idRe.MatchString(id) {
		return "", "accountId contains invalid characters"
	}
	return id, ""
}

// ValidateCommentBody trims and truncates a comment body to DB limits.
// Truncation backs up to a rune boundary so a multi-byte character is
// never split into an invalid-UTF-8 suffix.
func ValidateCommentBody(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > MaxCommentLen {
		cut := MaxCommentLen
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}
	return body
}
