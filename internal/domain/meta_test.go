package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMetaGUID(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "minimal",
			content: FormatMeta("f6c90ecc3623ea84fbcd10153e8dcabb"),
			want:    "f6c90ecc3623ea84fbcd10153e8dcabb",
		},
		{
			name: "importer settings",
			content: "fileFormatVersion: 2\n" +
				"guid: 37c611f499cb40bc93b707bcc4bbe39c\n" +
				"NativeFormatImporter:\n" +
				"  externalObjects: {}\n" +
				"  mainObjectFileID: 2100000\n",
			want: "37c611f499cb40bc93b707bcc4bbe39c",
		},
		{
			name: "nested guid is not the asset guid",
			content: "fileFormatVersion: 2\n" +
				"ModelImporter:\n" +
				"  externalObjects:\n" +
				"  - first: {type: UnityEngine:Material}\n" +
				"    second: {fileID: 2100000, guid: 37c611f499cb40bc93b707bcc4bbe39c, type: 2}\n",
			want: "",
		},
		{
			name:    "malformed yaml falls back to the guid line",
			content: "fileFormatVersion: 2\nguid: 37c611f499cb40bc93b707bcc4bbe39c\nbroken: [1, 2\n",
			want:    "37c611f499cb40bc93b707bcc4bbe39c",
		},
		{
			name:    "empty",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMetaGUID(tt.content))
		})
	}
}

func TestMetaPath(t *testing.T) {
	assert.Equal(t, "Assets/A/x.mat.meta", MetaPath("Assets/A/x.mat"))
	assert.Equal(t, "Assets/A.meta", MetaPath("Assets/A/"))

	assert.True(t, IsMetaPath("Assets/A/x.mat.meta"))
	assert.True(t, IsMetaPath("Assets/A/x.mat.META"))
	assert.False(t, IsMetaPath("Assets/A/x.mat"))
}
