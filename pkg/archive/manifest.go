// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Implements MANIFEST.MF spec: https://docs.oracle.com/javase/8/docs/technotes/guides/jar/jar.html#JARManifest

const (
	// ManifestPath is the reserved name of the manifest entry within a JAR.
	ManifestPath = "META-INF/MANIFEST.MF"
	// ManifestVersion is the attribute written first in the main section.
	ManifestVersion = "Manifest-Version"
	// NameAttribute opens every per-entry section.
	NameAttribute = "Name"

	maxLineBytes = 72
	maxNameBytes = 70
)

// ErrMalformedManifest is wrapped by all manifest parsing and serialization failures.
var ErrMalformedManifest = errors.New("malformed manifest")

// Section represents a section in the manifest file.
// Attribute names are matched case-insensitively.
type Section struct {
	// attributes maps lower-cased names to values for quick lookup
	attributes map[string]string
	// Names of Attributes, by default maintaining their original order and spelling
	Names []string
}

// NewSection creates a new section
func NewSection() *Section {
	return &Section{
		attributes: make(map[string]string),
		Names:      make([]string, 0),
	}
}

// Set adds or updates an attribute while maintaining order.
// Updating an existing attribute keeps its original position and spelling.
func (s *Section) Set(name, value string) {
	key := strings.ToLower(name)
	if _, exists := s.attributes[key]; !exists {
		s.Names = append(s.Names, name)
	}
	s.attributes[key] = value
}

// Get retrieves an attribute value
func (s *Section) Get(name string) (string, bool) {
	v, ok := s.attributes[strings.ToLower(name)]
	return v, ok
}

// Delete removes an attribute
func (s *Section) Delete(name string) {
	key := strings.ToLower(name)
	if _, ok := s.attributes[key]; !ok {
		return
	}
	delete(s.attributes, key)
	for i, n := range s.Names {
		if strings.EqualFold(n, name) {
			s.Names = append(s.Names[:i:i], s.Names[i+1:]...)
			break
		}
	}
}

// Len returns the number of attributes in the section.
func (s *Section) Len() int {
	return len(s.Names)
}

// Clone returns a deep copy of the section.
func (s *Section) Clone() *Section {
	c := NewSection()
	for _, name := range s.Names {
		v, _ := s.Get(name)
		c.Set(name, v)
	}
	return c
}

// Manifest represents a parsed MANIFEST.MF file
type Manifest struct {
	MainSection   *Section
	EntrySections []*Section
}

// NewManifest creates a new empty manifest
func NewManifest() *Manifest {
	return &Manifest{
		MainSection:   NewSection(),
		EntrySections: make([]*Section, 0),
	}
}

// Entry returns the per-entry section with the given Name attribute.
func (m *Manifest) Entry(name string) (*Section, bool) {
	for _, s := range m.EntrySections {
		if n, _ := s.Get(NameAttribute); n == name {
			return s, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	c := &Manifest{
		MainSection:   m.MainSection.Clone(),
		EntrySections: make([]*Section, 0, len(m.EntrySections)),
	}
	for _, s := range m.EntrySections {
		c.EntrySections = append(c.EntrySections, s.Clone())
	}
	return c
}

// Merge returns a new manifest with the main attributes of overlay laid over
// a copy of base. Entry sections are taken from base only.
func Merge(base, overlay *Manifest) *Manifest {
	merged := base.Clone()
	for _, name := range overlay.MainSection.Names {
		v, _ := overlay.MainSection.Get(name)
		merged.MainSection.Set(name, v)
	}
	return merged
}

// ParseManifest parses a manifest file from a reader
func ParseManifest(r io.Reader) (*Manifest, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}

	content = normalizeLineEndings(content)

	manifest := NewManifest()
	reader := bufio.NewReader(bytes.NewReader(content))

	currentSection := manifest.MainSection
	var currentLine, continuationLine string
	lineNum := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "reading line")
		}
		lineNum++
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, " ") {
			// Continuation line
			if currentLine == "" {
				return nil, errors.Wrapf(ErrMalformedManifest, "line %d: unexpected continuation line", lineNum)
			}
			continuationLine += strings.TrimPrefix(line, " ")
			continue
		}
		currentLine += continuationLine
		continuationLine = ""
		if err := processManifestLine(currentSection, currentSection != manifest.MainSection, currentLine); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum-1)
		}
		currentLine = line
		if line == "" {
			// Section separator
			if currentSection != manifest.MainSection && currentSection.Len() > 0 {
				name, _ := currentSection.Get(NameAttribute)
				if _, dup := manifest.Entry(name); dup {
					return nil, errors.Wrapf(ErrMalformedManifest, "duplicate entry section: %s", name)
				}
				manifest.EntrySections = append(manifest.EntrySections, currentSection)
			}
			currentSection = NewSection()
			if err == io.EOF {
				break
			}
		} else if err == io.EOF {
			return nil, errors.Wrap(ErrMalformedManifest, "missing trailing newline")
		}
	}
	return manifest, nil
}

// processManifestLine processes a single manifest line and adds it to the section
func processManifestLine(section *Section, isEntry bool, line string) error {
	if line == "" {
		return nil
	}
	colonIdx := strings.Index(line, ":")
	if colonIdx == -1 {
		return errors.Wrapf(ErrMalformedManifest, "missing colon: %s", line)
	}
	name := strings.TrimSpace(line[:colonIdx])
	value := strings.TrimPrefix(line[colonIdx+1:], " ")
	if err := validateName(name); err != nil {
		return errors.Wrapf(err, "invalid name '%s'", name)
	}
	if isEntry && section.Len() == 0 && !strings.EqualFold(name, NameAttribute) {
		return errors.Wrapf(ErrMalformedManifest, "entry section must begin with %s, found %s", NameAttribute, name)
	}
	if _, exists := section.Get(name); exists {
		return errors.Wrapf(ErrMalformedManifest, "duplicate attribute: %s", name)
	}
	section.Set(name, value)
	return nil
}

// validateName checks if a manifest attribute name is valid
func validateName(name string) error {
	if len(name) == 0 {
		return errors.Wrap(ErrMalformedManifest, "empty name")
	}
	if len(name) > maxNameBytes {
		return errors.Wrapf(ErrMalformedManifest, "name exceeds %d bytes", maxNameBytes)
	}
	for _, c := range name {
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '_') {
			return errors.Wrapf(ErrMalformedManifest, "invalid character in name: %c", c)
		}
	}
	// Check for "From" prefix since someone might think this is an email???
	if strings.HasPrefix(strings.ToLower(name), "from") {
		return errors.Wrap(ErrMalformedManifest, "name cannot start with 'From'")
	}
	return nil
}

// WriteManifest writes a manifest back to a writer
func WriteManifest(w io.Writer, m *Manifest) error {
	if err := writeSection(w, m.MainSection, ManifestVersion); err != nil {
		return err
	}
	for _, section := range m.EntrySections {
		if _, err := w.Write([]byte("\r\n")); err != nil {
			return err
		}
		if err := writeSection(w, section, NameAttribute); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte("\r\n"))
	return err
}

// Bytes serializes the manifest.
func (m *Manifest) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteManifest(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeSection writes a single section to a writer, emitting the lead attribute first.
func writeSection(w io.Writer, section *Section, lead string) error {
	names := make([]string, 0, section.Len())
	for _, name := range section.Names {
		if strings.EqualFold(name, lead) {
			names = append([]string{name}, names...)
		} else {
			names = append(names, name)
		}
	}
	for _, name := range names {
		value, _ := section.Get(name)
		if strings.ContainsAny(value, "\r\n\x00") {
			return errors.Wrapf(ErrMalformedManifest, "invalid character in value of %s", name)
		}
		if err := writeAttribute(w, name, value); err != nil {
			return err
		}
	}
	return nil
}

// writeAttribute splits a line longer than 72 bytes into continuation lines
func writeAttribute(w io.Writer, name, value string) error {
	sep := ": "
	remaining := name + sep + value
	base := len(name) + len(sep)
	for len(remaining) > maxLineBytes {
		// Find last space before 72 bytes
		splitIdx := maxLineBytes - 1
		for splitIdx > base && remaining[splitIdx] != ' ' {
			splitIdx--
		}
		if splitIdx == base {
			// No space found, force split at 71
			splitIdx = maxLineBytes - 1
		}
		if _, err := w.Write([]byte(remaining[:splitIdx+1] + "\r\n")); err != nil {
			return err
		}
		remaining = " " + remaining[splitIdx+1:]
		base = 0
	}
	if _, err := w.Write([]byte(remaining + "\r\n")); err != nil {
		return err
	}
	return nil
}

// normalizeLineEndings ensures consistent CRLF line endings
func normalizeLineEndings(data []byte) []byte {
	// Replace Windows style (CRLF) with Unix style (LF)
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	// Replace Mac style (CR) with Unix style (LF)
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	// Replace Unix style (LF) with Windows style (CRLF)
	data = bytes.ReplaceAll(data, []byte("\n"), []byte("\r\n"))
	return data
}
