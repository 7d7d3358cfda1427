// Package schemas holds the JSON Schemas for the tool's structured outputs.
package schemas

import _ "embed"

// ReportSchema is the JSON Schema for reports written in the json format.
//
//go:embed report.schema.json
var ReportSchema []byte

// ReportSchemaFile is the schema's file name inside this directory.
const ReportSchemaFile = "report.schema.json"
