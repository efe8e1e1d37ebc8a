package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"PRESCRICAO":    CategoryPrescription,
		"Prescrição":    CategoryPrescription,
		" prescription": CategoryPrescription,
		"DECADÊNCIA":    CategoryLapse,
		"decadencia":    CategoryLapse,
		"NULIDADE":      CategoryNullity,
		"Mérito":        CategoryMerit,
		"FORMAL":        CategoryFormal,
		"processual":    CategoryProcedural,
		"OUTROS":        CategoryOther,
		"TRIBUTARIO":    CategoryOther,
		"":              CategoryOther,
	}
	for label, want := range cases {
		t.Run("Should map "+label, func(t *testing.T) {
			assert.Equal(t, want, ParseCategory(label))
		})
	}
}

func TestCaseSubmission(t *testing.T) {
	t.Run("Should accept the fine as a number or a string", func(t *testing.T) {
		var fromNumber, fromString CaseSubmission
		require.NoError(t, json.Unmarshal([]byte(`{"process_id": "P", "fine_amount": 10000.5}`), &fromNumber))
		require.NoError(t, json.Unmarshal([]byte(`{"process_id": "P", "fine_amount": "10000.50"}`), &fromString))

		assert.True(t, fromNumber.FineAmount.Equal(decimal.RequireFromString("10000.5")))
		assert.True(t, fromString.FineAmount.Equal(fromNumber.FineAmount))
	})

	t.Run("Should default the fine to zero", func(t *testing.T) {
		var sub CaseSubmission
		require.NoError(t, json.Unmarshal([]byte(`{"process_id": "P"}`), &sub))
		assert.True(t, sub.FineAmount.IsZero())
	})

	t.Run("Should need either text or key", func(t *testing.T) {
		assert.False(t, CaseSubmission{ProcessID: "P"}.HasDocument())
		assert.True(t, CaseSubmission{ProcessID: "P", DocumentText: "x"}.HasDocument())
		assert.True(t, CaseSubmission{ProcessID: "P", DocumentKey: "a.txt"}.HasDocument())
	})
}

func TestAnalysisResultJSON(t *testing.T) {
	t.Run("Should serialize snake_case fields and empty lists", func(t *testing.T) {
		result := AnalysisResult{
			ProcessID:  "P",
			Status:     StatusNoArgumentsFound,
			Arguments:  []Argument{},
			Summary:    "s",
			Confidence: 0.1,
			Warnings:   []string{"w"},
		}

		data, err := json.Marshal(result)
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"process_id": "P",
			"status": "NO_ARGUMENTS_FOUND",
			"arguments": [],
			"summary": "s",
			"confidence": 0.1,
			"warnings": ["w"]
		}`, string(data))
	})
}
