package manifest

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"kapsel/internal/env"
	"kapsel/internal/models"
)

// Manifest attributes understood by the launcher.
const (
	AttrApplicationID  = "Kapsel-Application-Id"
	AttrRuntimeOptions = "Kapsel-Jvm-Options"
	AttrEntryPoint     = "Kapsel-Main-Class"
	AttrPayloadItems   = "Kapsel-Class-Path"
)

// Attributes holds the main section of a manifest. Names are case-insensitive.
type Attributes struct {
	values map[string]string
	names  []string
}

func (a *Attributes) Get(name string) (string, bool) {
	v, ok := a.values[strings.ToLower(name)]
	return v, ok
}

// Names returns attribute names in file order, as spelled in the file.
func (a *Attributes) Names() []string {
	return a.names
}

func (a *Attributes) set(name, value string) {
	key := strings.ToLower(name)
	if _, ok := a.values[key]; !ok {
		a.names = append(a.names, name)
	}
	a.values[key] = value
}

/**
 * Parse the main section of a jar-style manifest
 * @param {io.Reader} r - Manifest content
 * @returns {*Attributes} Returns main attributes
 * @description
 * - "Name: value" per line, a line starting with a single space continues the previous value
 * - The main section ends at the first blank line
 * - CRLF and LF line endings are both accepted
 * @throws
 * - ConfigurationError for a line that is neither an attribute nor a continuation
 */
func Parse(r io.Reader) (*Attributes, error) {
	attrs := &Attributes{values: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	var name string
	var value strings.Builder
	flush := func() {
		if name != "" {
			attrs.set(name, value.String())
		}
		name = ""
		value.Reset()
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			break
		}
		if strings.HasPrefix(line, " ") {
			if name == "" {
				return nil, models.ErrInvalidManifest(
					fmt.Sprintf("line %d: continuation without attribute", lineNo), nil)
			}
			value.WriteString(line[1:])
			continue
		}
		flush()
		idx := strings.IndexByte(line, ':')
		if idx <= 0 {
			return nil, models.ErrInvalidManifest(
				fmt.Sprintf("line %d: expected 'Name: value', got %q", lineNo, line), nil)
		}
		name = line[:idx]
		value.WriteString(strings.TrimPrefix(line[idx+1:], " "))
	}
	if err := scanner.Err(); err != nil {
		return nil, models.ErrInvalidManifest("read failed", err)
	}
	flush()
	return attrs, nil
}

// SplitList splits a multi-valued attribute on ASCII whitespace, dropping empty tokens.
// Unicode spaces such as U+00A0 stay part of the token.
func SplitList(value string) []string {
	return strings.FieldsFunc(value, isASCIISpace)
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func oneArg(attrs *Attributes, name string) (string, error) {
	v, ok := attrs.Get(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", models.ErrMissingAttribute(name)
	}
	return strings.TrimSpace(v), nil
}

func manyArg(attrs *Attributes, name string) []string {
	v, ok := attrs.Get(name)
	if !ok {
		return []string{}
	}
	return SplitList(v)
}

// validItem accepts slash-separated relative paths that stay inside the cache directory.
func validItem(item string) bool {
	return fs.ValidPath(item) && item != "." && !strings.Contains(item, `\`)
}

/**
 * Load the launch configuration from a manifest
 * @param {io.Reader} r - Manifest content
 * @returns {*models.LaunchConfig} Returns launch configuration
 * @throws
 * - ConfigurationError when application id or entry point is missing
 * - ConfigurationError when a payload item is not a local relative path
 */
func Load(r io.Reader) (*models.LaunchConfig, error) {
	attrs, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return FromAttributes(attrs)
}

func FromAttributes(attrs *Attributes) (*models.LaunchConfig, error) {
	appID, err := oneArg(attrs, AttrApplicationID)
	if err != nil {
		return nil, err
	}
	if !validItem(appID) || strings.Contains(appID, "/") || appID == env.LockDirName {
		return nil, models.ErrInvalidManifest(
			fmt.Sprintf("%s '%s' is not a valid directory name", AttrApplicationID, appID), nil).
			WithContext("attribute", AttrApplicationID)
	}
	entryPoint, err := oneArg(attrs, AttrEntryPoint)
	if err != nil {
		return nil, err
	}

	items := manyArg(attrs, AttrPayloadItems)
	for _, item := range items {
		if !validItem(item) {
			return nil, models.ErrInvalidManifest(
				fmt.Sprintf("payload item '%s' must be a relative path inside the bundle", item), nil).
				WithContext("attribute", AttrPayloadItems)
		}
	}

	return &models.LaunchConfig{
		ApplicationID:  appID,
		RuntimeOptions: manyArg(attrs, AttrRuntimeOptions),
		EntryPoint:     entryPoint,
		PayloadItems:   items,
	}, nil
}
