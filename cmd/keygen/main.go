// Command keygen prints a random 256-bit key in the form accepted by JWT_KEY.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
)

const keyBytes = 32

func main() {
	key, err := generateKey()
	if err != nil {
		slog.Error("failed to generate key", "error", err)
		os.Exit(1)
	}
	fmt.Println(key)
}

func generateKey() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "base64:" + base64.StdEncoding.EncodeToString(buf), nil
}
