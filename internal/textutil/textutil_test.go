package textutil

import (
	"reflect"
	"sync"
	"testing"
)

func TestFields(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"hello world", []string{"hello", "world"}},
		{"  spaces  ", []string{"spaces"}},
		{"tab\tand\nnewline", []string{"tab", "and", "newline"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		got := Fields(tt.input)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Fields(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello", "hello"},
		{"world.", "world"},
		{"(Zionism)", "zionism"},
		{"don't", "dont"},
		{"Česká", "česká"},
		{"ŽLUŤOUČKÝ", "žluťoučký"},
		{"...", ""},
		{"-", ""},
		{"e-mail", "email"},
		{"100%", "100"},
		{"Česká", "česká"},
	}
	for _, tt := range tests {
		got := NormalizeToken(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeToken(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLower(t *testing.T) {
	if got := Lower("ÉCOLE"); got != "école" {
		t.Errorf("Lower = %q, want %q", got, "école")
	}
}

func TestLowerConcurrent(t *testing.T) {
	words := []string{"ÉCOLE", "Praha", "ŽLUŤOUČKÝ", "Dog"}
	want := []string{"école", "praha", "žluťoučký", "dog"}
	var wg sync.WaitGroup
	errs := make(chan string, 8*len(words))
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				for i, w := range words {
					if got := Lower(w); got != want[i] {
						errs <- got
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent Lower returned %q", got)
	}
}
