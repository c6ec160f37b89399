package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/idelchi/rdpro/internal/rdpro"
)

func newTestConsole(input string, interactive bool) (*Console, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	return &Console{
		Out:          &out,
		Err:          &errOut,
		In:           strings.NewReader(input),
		Interactive:  interactive,
		ShowProgress: true,
	}, &out, &errOut
}

func TestConsole_Disclaimer(t *testing.T) {
	console, out, _ := newTestConsole("", false)

	console.Disclaimer("v1.2.3")

	want := "RdPro v1.2.3 - Very fast directory and file delete utility\n" +
		"Important note: Purged files does not go to recycle bin so can't be recovered.\n"
	if out.String() != want {
		t.Errorf("Disclaimer() wrote %q, expected %q", out.String(), want)
	}
}

func TestConsole_Confirm(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"y", true},
		{"", false},
	}

	for _, test := range tests {
		console, _, _ := newTestConsole(test.input, true)

		got, err := console.Confirm("Remove?")
		if err != nil {
			t.Fatalf("Confirm(%q) error = %v", test.input, err)
		}

		if got != test.expected {
			t.Errorf("Confirm(%q) = %v, expected %v", test.input, got, test.expected)
		}
	}
}

func TestConsole_ConfirmRequiresTerminal(t *testing.T) {
	console, _, _ := newTestConsole("y\n", false)

	if ok, err := console.Confirm("Remove?"); ok || !errors.Is(err, ErrNotInteractive) {
		t.Errorf("Confirm() = %v, %v, expected ErrNotInteractive", ok, err)
	}
}

func TestConsole_ProgressClearedBeforeLines(t *testing.T) {
	console, out, errOut := newTestConsole("", false)

	console.Progress(rdpro.Stats{FilesFound: 1234, BytesFound: 2048})

	if !strings.Contains(errOut.String(), "Scanning… 1,234 files, 0 dirs, 2.0 KiB") {
		t.Errorf("status line = %q", errOut.String())
	}

	console.Progress(rdpro.Stats{FilesFound: 10, FilesRemoved: 4, DirsFound: 2})

	if !strings.Contains(errOut.String(), "Removing… 4/10 files, 0/2 dirs, 0 errors") {
		t.Errorf("status line = %q", errOut.String())
	}

	errOut.Reset()
	console.Println("\t[warn]Can't remove:/x. May be locked. ")

	if errOut.String() != "\r\033[2K\r" {
		t.Errorf("status line not cleared before report line: %q", errOut.String())
	}

	if out.String() != "\t[warn]Can't remove:/x. May be locked. \n" {
		t.Errorf("report line = %q", out.String())
	}

	errOut.Reset()
	console.ClearProgress()

	if errOut.Len() != 0 {
		t.Errorf("ClearProgress() wrote %q with no status line shown", errOut.String())
	}
}

func TestConsole_ProgressDisabled(t *testing.T) {
	console, _, errOut := newTestConsole("", false)
	console.ShowProgress = false

	console.Progress(rdpro.Stats{FilesFound: 1})

	if errOut.Len() != 0 {
		t.Errorf("Progress() wrote %q while disabled", errOut.String())
	}
}
