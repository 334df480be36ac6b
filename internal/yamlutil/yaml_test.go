package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-bookworks/internal/yamlutil"
)

type bookMeta struct {
	Title string `yaml:"title"`
	Pages int    `yaml:"pages"`
	Draft bool   `yaml:"draft"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("title: Voyages\npages: 312\ndraft: true"),
			dest: &bookMeta{},
			check: func(t *testing.T, v any) {
				m := v.(*bookMeta)
				if m.Title != "Voyages" {
					t.Errorf("Title = %q, want %q", m.Title, "Voyages")
				}
				if m.Pages != 312 {
					t.Errorf("Pages = %d, want %d", m.Pages, 312)
				}
				if !m.Draft {
					t.Error("Draft = false, want true")
				}
			},
		},
		{
			name: "unknown fields ignored",
			data: []byte("title: Voyages\npublisher: unmapped"),
			dest: &bookMeta{},
			check: func(t *testing.T, v any) {
				m := v.(*bookMeta)
				if m.Title != "Voyages" {
					t.Errorf("Title = %q, want %q", m.Title, "Voyages")
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &bookMeta{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &bookMeta{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("title: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "invalid YAML syntax",
			data:    []byte("title: [unclosed"),
			dest:    &bookMeta{},
			wantErr: errors.New("yamlutil:"), // partial match
		},
		{
			name: "unicode content",
			data: []byte("title: 星の王子さま"),
			dest: &bookMeta{},
			check: func(t *testing.T, v any) {
				m := v.(*bookMeta)
				if m.Title != "星の王子さま" {
					t.Errorf("Title = %q, want %q", m.Title, "星の王子さま")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if errors.Is(err, tt.wantErr) {
					return
				}
				if !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %q, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "known fields only",
			data: []byte("title: Strict\npages: 10"),
			dest: &bookMeta{},
			check: func(t *testing.T, v any) {
				m := v.(*bookMeta)
				if m.Title != "Strict" {
					t.Errorf("Title = %q, want %q", m.Title, "Strict")
				}
				if m.Pages != 10 {
					t.Errorf("Pages = %d, want %d", m.Pages, 10)
				}
			},
		},
		{
			name:    "unknown field causes error",
			data:    []byte("title: x\npublsher: typo"),
			dest:    &bookMeta{},
			wantErr: errors.New("yamlutil:"),
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &bookMeta{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("title: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if errors.Is(err, tt.wantErr) {
					return
				}
				if !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %q, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	t.Parallel()

	t.Run("ErrNilData is detectable via errors.Is", func(t *testing.T) {
		t.Parallel()

		err := yamlutil.Unmarshal(nil, &bookMeta{})
		if !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("errors.Is(err, ErrNilData) = false, want true")
		}
	})

	t.Run("ErrNilDestination is detectable via errors.Is", func(t *testing.T) {
		t.Parallel()

		err := yamlutil.Unmarshal([]byte("title: x"), nil)
		if !errors.Is(err, yamlutil.ErrNilDestination) {
			t.Errorf("errors.Is(err, ErrNilDestination) = false, want true")
		}
	})

	t.Run("wrapped errors have yamlutil prefix", func(t *testing.T) {
		t.Parallel()

		err := yamlutil.Unmarshal([]byte("invalid: [unclosed"), &bookMeta{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.HasPrefix(err.Error(), "yamlutil:") {
			t.Errorf("error = %q, want prefix 'yamlutil:'", err)
		}
	})
}

// TestInputSizeLimit modifies the global MaxInputSize, so it cannot run
// in parallel with other tests.
func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	t.Run("input at limit succeeds", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := make([]byte, 100)
		copy(data, []byte("title: x"))
		var m bookMeta
		if err := yamlutil.Unmarshal(data, &m); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("input exceeding limit fails", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := make([]byte, 101)
		copy(data, []byte("title: x"))
		var m bookMeta
		err := yamlutil.Unmarshal(data, &m)
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
		}
	})

	t.Run("error message includes sizes", func(t *testing.T) {
		yamlutil.MaxInputSize = 50
		data := make([]byte, 100)
		var m bookMeta
		err := yamlutil.Unmarshal(data, &m)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		msg := err.Error()
		if !strings.Contains(msg, "100 bytes") {
			t.Errorf("error should contain actual size, got: %s", msg)
		}
		if !strings.Contains(msg, "max 50") {
			t.Errorf("error should contain max size, got: %s", msg)
		}
	})

	t.Run("UnmarshalStrict also enforces limit", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := make([]byte, 101)
		copy(data, []byte("title: x"))
		var m bookMeta
		err := yamlutil.UnmarshalStrict(data, &m)
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
		}
	})
}
