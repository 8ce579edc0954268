package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLoose_EquivalentForms(t *testing.T) {
	type payload struct {
		TOC []struct {
			Title string `json:"title"`
		} `json:"toc"`
	}

	pure := `{"toc": [{"title": "Intro"}]}`
	fenced := "```json\n" + pure + "\n```"
	prose := "Here is the structure you asked for:\n" + pure + "\nLet me know if you need more."

	var want payload
	require.NoError(t, DecodeLoose(pure, &want))

	for name, input := range map[string]string{
		"fenced": fenced,
		"prose":  prose,
	} {
		var got payload
		require.NoError(t, DecodeLoose(input, &got), name)
		assert.Equal(t, want, got, name)
	}
}

func TestDecodeLoose_Array(t *testing.T) {
	var got []int
	require.NoError(t, DecodeLoose("the values are [1, 2, 3] as requested", &got))
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestDecodeLoose_Unparsable(t *testing.T) {
	var got map[string]interface{}
	err := DecodeLoose("I could not process this document.", &got)
	assert.Error(t, err)
}
