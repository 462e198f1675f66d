// Package nunit parses NUnit-style XML result documents into a normalized
// report record.
package nunit

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
)

// Report is the normalized top-level summary of a test-results document.
type Report struct {
	Total    int
	Errors   int
	Failures int
	// Date and Time are carried verbatim from the document attributes.
	Date string
	Time string
	// Raw is the full document as read from disk.
	Raw []byte
}

// MalformedReportError reports a result document that is missing, not
// well-formed XML, or lacking the expected test-results element and
// attributes. A document with large error/failure counts is a valid
// report, not a malformed one.
type MalformedReportError struct {
	Path string
	Err  error
}

func (e *MalformedReportError) Error() string {
	return fmt.Sprintf("malformed test report %s: %v", e.Path, e.Err)
}

func (e *MalformedReportError) Unwrap() error { return e.Err }

type resultsDoc struct {
	XMLName  xml.Name `xml:"test-results"`
	Total    string   `xml:"total,attr"`
	Errors   string   `xml:"errors,attr"`
	Failures string   `xml:"failures,attr"`
	Date     string   `xml:"date,attr"`
	Time     string   `xml:"time,attr"`
}

// ParseFile reads and parses the document at path. Any failure is returned
// as a *MalformedReportError.
func ParseFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &MalformedReportError{Path: path, Err: err}
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Report, error) {
	var doc resultsDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedReportError{Path: path, Err: err}
	}
	report := &Report{Date: doc.Date, Time: doc.Time, Raw: data}
	for _, field := range []struct {
		name  string
		value string
		dst   *int
	}{
		{"total", doc.Total, &report.Total},
		{"errors", doc.Errors, &report.Errors},
		{"failures", doc.Failures, &report.Failures},
	} {
		if field.value == "" {
			return nil, &MalformedReportError{Path: path, Err: fmt.Errorf("missing %s attribute", field.name)}
		}
		n, err := strconv.Atoi(field.value)
		if err != nil {
			return nil, &MalformedReportError{Path: path, Err: fmt.Errorf("bad %s attribute %q", field.name, field.value)}
		}
		*field.dst = n
	}
	return report, nil
}
