// Package memetokens holds the bindings of the meme_tokens program. They are
// maintained by hand in anchor-go's layout and checked against
// idl/meme_tokens.json by idl_test.go.
//
// After an IDL change, regenerate into _anchor (ignored by the go tool) and
// port the differences:
//
//	go generate ./gen/meme_tokens
package memetokens

//go:generate go tool anchor-go --idl ./idl/meme_tokens.json --output ./_anchor --program-id 838to942ATb6jwyL9fbPxpHk33wfeckvkBhhK9iejhMp
