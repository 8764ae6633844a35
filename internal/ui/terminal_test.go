package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"whatever\n", false},
		{"", false}, // EOF
	}
	for _, tt := range tests {
		var out bytes.Buffer
		term := NewWith(strings.NewReader(tt.in), &out)
		if got := term.Confirm("delete?"); got != tt.want {
			t.Errorf("Confirm with input %q = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPasswordCancelOnEmpty(t *testing.T) {
	var out bytes.Buffer
	term := NewWith(strings.NewReader("\n"), &out)
	if res := term.Password("Enter password", nil); res != nil {
		t.Errorf("empty input must cancel, got %+v", res)
	}
}

func TestPasswordRepromptsUntilValid(t *testing.T) {
	var out bytes.Buffer
	// wrong, wrong, right, then decline remember
	in := "bad1\nbad2\nhunter2\nn\n"
	term := NewWith(strings.NewReader(in), &out)

	res := term.Password("Enter password", func(pw string) bool { return pw == "hunter2" })
	if res == nil {
		t.Fatal("expected a result after valid input")
	}
	if res.Password != "hunter2" {
		t.Errorf("password = %q, want hunter2", res.Password)
	}
	if res.Remember {
		t.Error("remember should be declined")
	}
	if !strings.Contains(out.String(), "Incorrect password.") {
		t.Error("wrong attempts should be announced")
	}
}

func TestPasswordRemember(t *testing.T) {
	var out bytes.Buffer
	term := NewWith(strings.NewReader("hunter2\ny\n"), &out)

	res := term.Password("Enter password", func(pw string) bool { return pw == "hunter2" })
	if res == nil || !res.Remember {
		t.Errorf("expected remembered password, got %+v", res)
	}
}

func TestPasswordGiveUpDuringValidation(t *testing.T) {
	var out bytes.Buffer
	term := NewWith(strings.NewReader("bad\n\n"), &out)

	res := term.Password("Enter password", func(string) bool { return false })
	if res != nil {
		t.Errorf("empty line after failures must cancel, got %+v", res)
	}
}

func TestNewPasswordSkipsRememberPrompt(t *testing.T) {
	var out bytes.Buffer
	// No validate: used for fresh passwords, no remember question.
	term := NewWith(strings.NewReader("newpw\n"), &out)

	res := term.Password("Set a password", nil)
	if res == nil || res.Password != "newpw" || res.Remember {
		t.Errorf("got %+v", res)
	}
}
