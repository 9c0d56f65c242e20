// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	// MaxImageBytes caps images read from disk.
	MaxImageBytes = 5 * 1024 * 1024

	// MaxFileBytes caps text files added to a conversation; it matches the
	// HTTP API's per-message limit.
	MaxFileBytes = 100000

	// filePrefix introduces a text file added as a message.
	filePrefix = "File content:\n\n"
)

// imageRef turns a URL or local path into an image reference. URLs and
// data: URLs pass through; files become base64 data: URLs.
func imageRef(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("image path or URL required")
	}
	lower := strings.ToLower(arg)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "data:image/") {
		return arg, nil
	}

	data, err := readLimited(arg, MaxImageBytes)
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is not an image (detected %s)", arg, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// fileMessage reads a text file into the content of a user message.
func fileMessage(path string) (string, error) {
	data, err := readLimited(strings.TrimSpace(path), MaxFileBytes-len(filePrefix))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not a text file", path)
	}
	return filePrefix + string(data), nil
}

func readLimited(path string, limit int) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > int64(limit) {
		return nil, fmt.Errorf("file too large: %d bytes (max %d bytes)", info.Size(), limit)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}
