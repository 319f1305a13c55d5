package cli

import "testing"

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "no keyword source",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name:    "inline keyword",
			cfg:     Config{Keywords: []Keyword{{Text: "foo"}}},
			wantErr: false,
		},
		{
			name:    "keyword file",
			cfg:     Config{KeywordFile: "keywords.txt"},
			wantErr: false,
		},
		{
			name:    "index path",
			cfg:     Config{IndexPath: "idx.bin"},
			wantErr: false,
		},
		{
			name:    "index and inline together",
			cfg:     Config{IndexPath: "idx.bin", Keywords: []Keyword{{Text: "foo"}}},
			wantErr: true,
		},
		{
			name:    "build-index with keywords",
			cfg:     Config{BuildIndex: "idx.bin", Keywords: []Keyword{{Text: "foo"}}},
			wantErr: false,
		},
		{
			name:    "build-index without keywords",
			cfg:     Config{BuildIndex: "idx.bin"},
			wantErr: true,
		},
		{
			name:    "build-index and index together",
			cfg:     Config{BuildIndex: "idx.bin", IndexPath: "idx2.bin"},
			wantErr: true,
		},
		{
			name:    "negative context before",
			cfg:     Config{Keywords: []Keyword{{Text: "foo"}}, ContextBefore: -1},
			wantErr: true,
		},
		{
			name:    "negative context after",
			cfg:     Config{Keywords: []Keyword{{Text: "foo"}}, ContextAfter: -1},
			wantErr: true,
		},
		{
			name:    "count and files-only together",
			cfg:     Config{Keywords: []Keyword{{Text: "foo"}}, CountOnly: true, FileNamesOnly: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
