package token

import "realtime_chat_service/pkg/config"

// Wrapper function variables, swapped out by usecase tests.
var (
	GenerateJWTFunc = GenerateJWT
	ParseJWTFunc    = ParseJWT
)

// GenerateJWTWrapper issues a token with the service name as issuer
func GenerateJWTWrapper(userID, username string) (string, error) {
	return GenerateJWTFunc(userID, username, config.EnvConfig.ChatService)
}

// ParseJWTWrapper parses a token through the mockable variable
func ParseJWTWrapper(t string) (*Claims, error) {
	return ParseJWTFunc(t)
}
