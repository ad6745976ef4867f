package application

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "signature": "0xsig",
  "application": {
    "round": "0x1b165fe4da6bc58ab8370ddc763d367d29f50ef0",
    "recipient": "0x1111111111111111111111111111111111111111",
    "project": {
      "id": "0xproj",
      "title": "Solar Commons",
      "description": "Community solar for everyone.",
      "website": "https://solarcommons.org",
      "createdAt": 1700000000123,
      "logoImg": "bafylogo",
      "bannerImg": "bafybanner"
    },
    "answers": [
      {"questionId": 0, "question": "Email", "hidden": true, "encryptedAnswer": {"ciphertext": "x"}}
    ]
  }
}`

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(samplePayload))
	require.NoError(t, err)
	require.NotNil(t, doc.Application)

	app := doc.Application
	assert.Equal(t, "0x1b165fe4da6bc58ab8370ddc763d367d29f50ef0", app.RoundAddress())
	assert.Equal(t, "0x1111111111111111111111111111111111111111", app.RecipientAddress())
	assert.Len(t, app.Answers, 1)

	p := app.Project
	assert.Equal(t, "Solar Commons", p.Name())
	assert.Equal(t, "Community solar for everyone.", p.Summary())
	assert.Equal(t, "https://solarcommons.org", p.URL())
	assert.Equal(t, "bafylogo", p.Logo("default"))
	assert.Equal(t, "bafybanner", p.Banner("default"))
	assert.True(t, p.CreatedAt.IsSet())
	assert.Equal(t, "1700000000123", p.CreatedAt.Raw())
}

func TestDecode_DoubleEncoded(t *testing.T) {
	encoded, err := json.Marshal(samplePayload)
	require.NoError(t, err)

	doc, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "Solar Commons", doc.Application.Project.Name())

	// Wrapped twice
	twice, err := json.Marshal(string(encoded))
	require.NoError(t, err)

	doc, err = Decode(twice)
	require.NoError(t, err)
	assert.Equal(t, "Solar Commons", doc.Application.Project.Name())
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"truncated", `{"application": {"round": "0x1"`},
		{"python literal", `{'application': {'round': '0x1'}}`},
		{"trailing garbage", samplePayload + ` extra`},
		{"array", `[1, 2, 3]`},
		{"bad string encoding", `"{\"application\": `},
		{"encoded empty", `""`},
		{"wrong type", `{"application": {"round": 12}}`},
		{"boolean createdAt", `{"application": {"project": {"createdAt": true}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestDecode_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		missing []string
	}{
		{
			name:    "no application",
			input:   `{"signature": "0x"}`,
			missing: []string{"application"},
		},
		{
			name:    "no project",
			input:   `{"application": {"round": "0x1", "recipient": "0x2", "answers": []}}`,
			missing: []string{"application.project"},
		},
		{
			name: "no title or website",
			input: `{"application": {"round": "0x1", "recipient": "0x2", "answers": [],
				"project": {"description": "d"}}}`,
			missing: []string{"application.project.title", "application.project.website"},
		},
		{
			name: "no recipient or answers",
			input: `{"application": {"round": "0x1",
				"project": {"title": "t", "description": "d", "website": "w"}}}`,
			missing: []string{"application.recipient", "application.answers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingField)

			for _, field := range tt.missing {
				assert.Contains(t, err.Error(), field)
			}
		})
	}
}

func TestDecode_KeysAreCaseSensitive(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		missing []string
	}{
		{
			name: "application keys",
			input: `{"application": {"Round": "0x1", "RECIPIENT": "0x2", "answers": [],
				"project": {"title": "t", "description": "d", "website": "w"}}}`,
			missing: []string{"application.round", "application.recipient"},
		},
		{
			name: "project keys",
			input: `{"application": {"round": "0x1", "recipient": "0x2", "answers": [],
				"project": {"Title": "t", "description": "d", "Website": "w"}}}`,
			missing: []string{"application.project.title", "application.project.website"},
		},
		{
			name:    "document key",
			input:   `{"Application": {"round": "0x1"}}`,
			missing: []string{"application"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			require.ErrorIs(t, err, ErrMissingField)

			for _, field := range tt.missing {
				assert.Contains(t, err.Error(), field)
			}
		})
	}
}

func TestDecode_FoldedKeyDoesNotOverrideExact(t *testing.T) {
	input := `{"application": {"round": "0x1", "recipient": "0x2", "answers": [],
		"project": {"title": "Solar Commons", "Title": "SOLAR", "description": "d", "website": "w",
		"LogoImg": "bafyother"}}}`

	doc, err := Decode([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "Solar Commons", doc.Application.Project.Name())
	assert.Equal(t, "fallback", doc.Application.Project.Logo("fallback"))
}

func TestDecode_EmptyValuesAccepted(t *testing.T) {
	input := `{"application": {"round": "0x1", "recipient": "", "answers": [],
		"project": {"title": "t", "description": "", "website": ""}}}`

	doc, err := Decode([]byte(input))
	require.NoError(t, err)
	assert.Empty(t, doc.Application.RecipientAddress())
	assert.Empty(t, doc.Application.Project.URL())
	assert.False(t, doc.Application.Project.CreatedAt.IsSet())
	assert.Equal(t, "fallback", doc.Application.Project.Logo("fallback"))
}

func TestDecodeValue(t *testing.T) {
	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(samplePayload), &parsed))

	tests := []struct {
		name  string
		input any
	}{
		{"string", samplePayload},
		{"bytes", []byte(samplePayload)},
		{"parsed object", parsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeValue(tt.input)
			require.NoError(t, err)
			assert.Equal(t, "Solar Commons", doc.Application.Project.Name())
		})
	}

	_, err := DecodeValue(nil)
	require.ErrorIs(t, err, ErrMalformedPayload)

	_, err = DecodeValue(42)
	require.ErrorIs(t, err, ErrMalformedPayload)
}
