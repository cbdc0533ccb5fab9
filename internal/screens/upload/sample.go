package upload

import _ "embed"

// SampleNotes are bundled study notes for trying the app without
// pasting a document.
//
//go:embed sample_notes.txt
var SampleNotes string
