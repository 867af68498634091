/*
Copyright © 2025 UnluckyForSome
*/

// Package removal parses the companion filter report into a mapping from
// removed entry name to the reason the filtering step dropped it.
package removal

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// Reason classifies why the filtering step removed a catalog entry.
type Reason string

const (
	// ReasonSuperseded marks an entry removed in favor of a superior
	// release; the Record carries the superior name when the report named one.
	ReasonSuperseded  Reason = "superseded"
	ReasonApplication Reason = "application"
	ReasonAudio       Reason = "audio"
	ReasonCoverdisc   Reason = "coverdisc"
	ReasonDemo        Reason = "demo-kiosk-sample"
	ReasonEducational Reason = "educational"
	ReasonUnlicensed  Reason = "unlicensed"
	ReasonVideo       Reason = "video"
	ReasonLanguage    Reason = "language"
	ReasonUnspecified Reason = "unspecified"
)

// Record ties a removed entry to its classification. SupersededBy is set
// only for ReasonSuperseded, and may be empty when the clone section listed
// a removal before any kept line.
type Record struct {
	Reason       Reason `json:"reason" yaml:"reason"`
	SupersededBy string `json:"superseded_by,omitempty" yaml:"superseded_by,omitempty"`
}

// The report uses fixed, literal section header lines.
var sectionHeaders = map[string]Reason{
	"TITLES WITH CLONES":              ReasonSuperseded,
	"APPLICATION REMOVES":             ReasonApplication,
	"AUDIO REMOVES":                   ReasonAudio,
	"COVERDISC REMOVES":               ReasonCoverdisc,
	"DEMO, KIOSK, AND SAMPLE REMOVES": ReasonDemo,
	"EDUCATIONAL REMOVES":             ReasonEducational,
	"UNLICENSED REMOVES":              ReasonUnlicensed,
	"VIDEO REMOVES":                   ReasonVideo,
	"LANGUAGE REMOVES":                ReasonLanguage,
}

const cloneSection = "TITLES WITH CLONES"

// Parse reads a filter report and maps each removed entry name to a Record.
// Section header lines set the reason for the removals that follow them. In
// the clone section a "+ " line names the kept (superior) release for the
// "- " removals listed after it, until the next "+ " line or section change.
// If the same name is listed twice the last occurrence wins.
func Parse(r io.Reader) (map[string]Record, error) {
	records := map[string]Record{}

	var section Reason
	inClones := false
	parent := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")

		if reason, ok := sectionHeaders[line]; ok {
			section = reason
			inClones = line == cloneSection
			parent = ""
			continue
		}

		// Blank lines, separators, and the report preamble carry no entries.
		if line == "" || strings.HasPrefix(line, "=") || strings.HasPrefix(line, "*") ||
			strings.HasPrefix(line, "SECTIONS") || strings.HasPrefix(line, "This file") {
			continue
		}

		entry := strings.TrimLeft(line, " \t")
		switch {
		case strings.HasPrefix(entry, "+ "):
			if inClones {
				parent = strings.TrimSpace(entry[2:])
			}
		case strings.HasPrefix(entry, "- "):
			name := strings.TrimSpace(entry[2:])
			switch {
			case inClones:
				records[name] = Record{Reason: ReasonSuperseded, SupersededBy: parent}
			case section != "":
				records[name] = Record{Reason: section}
			default:
				records[name] = Record{Reason: ReasonUnspecified}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read filter report: %w", err)
	}
	return records, nil
}

// ParseFile opens path on fsys and parses it as a filter report.
func ParseFile(fsys billy.Filesystem, path string) (map[string]Record, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open filter report %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Parse(f)
}
