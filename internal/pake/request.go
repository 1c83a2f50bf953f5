// Package pake describes build requests for the Pake CLI and assembles the
// commands pakeforge runs on their behalf.
package pake

import (
	"fmt"
	"strconv"
	"strings"
)

// Default window dimensions for a packaged app.
const (
	DefaultWidth  = 1200
	DefaultHeight = 780
)

// IconExtensions lists the icon file types the builder accepts.
var IconExtensions = []string{".png", ".jpg", ".jpeg", ".ico", ".icns"}

// BuildRequest is one app build. It is passed by value and never mutated
// after submission.
type BuildRequest struct {
	URL          string `json:"url"`
	Name         string `json:"name"`
	Icon         string `json:"icon,omitempty"`
	Identifier   string `json:"identifier,omitempty"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Fullscreen   bool   `json:"fullscreen"`
	HideTitleBar bool   `json:"hide_title_bar"`
}

// NewRequest returns a request with the default dimensions.
func NewRequest(url, name string) BuildRequest {
	return BuildRequest{
		URL:    url,
		Name:   name,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// ValidationError reports a request field that cannot be submitted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Normalized returns a copy with surrounding whitespace trimmed from every
// text field.
func (r BuildRequest) Normalized() BuildRequest {
	r.URL = strings.TrimSpace(r.URL)
	r.Name = strings.TrimSpace(r.Name)
	r.Icon = strings.TrimSpace(r.Icon)
	r.Identifier = strings.TrimSpace(r.Identifier)
	return r
}

// Validate checks the required fields. Width and height of zero mean
// "let the builder decide"; negative values are rejected.
func (r BuildRequest) Validate() error {
	r = r.Normalized()
	if r.URL == "" {
		return &ValidationError{Field: "url", Message: "URL and App Name are required"}
	}
	if r.Name == "" {
		return &ValidationError{Field: "name", Message: "URL and App Name are required"}
	}
	if r.Width < 0 {
		return &ValidationError{Field: "width", Message: fmt.Sprintf("must be positive, got %d", r.Width)}
	}
	if r.Height < 0 {
		return &ValidationError{Field: "height", Message: fmt.Sprintf("must be positive, got %d", r.Height)}
	}
	return nil
}

// ParseDimension converts form text into a width or height. Blank input
// yields 0, which omits the flag.
func ParseDimension(field, text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n <= 0 {
		return 0, &ValidationError{Field: field, Message: fmt.Sprintf("%q is not a positive integer", text)}
	}
	return n, nil
}

// Args returns the builder arguments for r in a fixed order: URL, --name,
// then --icon, --identifier, --width, --height, --fullscreen and
// --hide-title-bar when set.
func Args(r BuildRequest) []string {
	r = r.Normalized()
	args := []string{r.URL, "--name", r.Name}
	if r.Icon != "" {
		args = append(args, "--icon", r.Icon)
	}
	if r.Identifier != "" {
		args = append(args, "--identifier", r.Identifier)
	}
	if r.Width > 0 {
		args = append(args, "--width", strconv.Itoa(r.Width))
	}
	if r.Height > 0 {
		args = append(args, "--height", strconv.Itoa(r.Height))
	}
	if r.Fullscreen {
		args = append(args, "--fullscreen")
	}
	if r.HideTitleBar {
		args = append(args, "--hide-title-bar")
	}
	return args
}
