package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statementReport() Report {
	return Report{
		Name: "BankStatement",
		Rows: []Row{
			{Cells: []Cell{{Value: "Date"}, {Value: "Description"}, {Value: "Reference"}, {Value: "Amount"}, {Value: "Balance"}}},
			{Rows: []Row{
				{Cells: []Cell{{Value: "2021-01-01"}, {Value: "Opening Balance"}, {Value: ""}, {Value: "0"}, {Value: "100.00"}}},
				{Cells: []Cell{{Value: "2021-01-02"}, {Value: "Donation A"}, {Value: "REF1"}, {Value: "50"}, {Value: "150.00"}}},
			}},
		},
	}
}

func TestRecords_ZipsHeaderAndRows(t *testing.T) {
	recs := statementReport().Records()
	require.Len(t, recs, 2)

	assert.Equal(t, "Opening Balance", recs[0]["Description"])
	assert.Equal(t, "REF1", recs[1]["Reference"])
	assert.Equal(t, "50", recs[1]["Amount"])
	assert.Equal(t, "150.00", recs[1]["Balance"])
}

func TestRecords_EmptyReport(t *testing.T) {
	assert.Nil(t, Report{}.Records())
	assert.Nil(t, Report{Rows: []Row{{Cells: []Cell{{Value: "Date"}}}}}.Records())
}

func TestRecords_ShortRow(t *testing.T) {
	r := Report{
		Rows: []Row{
			{Cells: []Cell{{Value: "A"}, {Value: "B"}}},
			{Rows: []Row{{Cells: []Cell{{Value: "1"}}}}},
		},
	}
	recs := r.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "1", recs[0]["A"])
	_, ok := recs[0]["B"]
	assert.False(t, ok)
}

func TestDecode(t *testing.T) {
	data := `{
	  "Reports": [
	    {
	      "ReportName": "BankStatement",
	      "Rows": [
	        {"Cells": [{"Value": "Date"}, {"Value": "Description"}]},
	        {"Rows": [{"Cells": [{"Value": "2021-01-02"}, {"Value": "Donation A"}]}]}
	      ]
	    }
	  ]
	}`

	rep, err := Decode(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "BankStatement", rep.Name)

	recs := rep.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "Donation A", recs[0]["Description"])
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"Reports": []}`))
	assert.Error(t, err)
}

func TestDecode_BadJSON(t *testing.T) {
	_, err := Decode(strings.NewReader("not json"))
	assert.Error(t, err)
}
