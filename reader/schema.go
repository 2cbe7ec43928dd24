package reader

import (
	"fmt"

	"github.com/segmentio/parquet-go"

	"github.com/vegasq/starql/query"
)

// SchemaInfo describes a single leaf column of a Parquet file and the StarQL
// type its values are read as.
type SchemaInfo struct {
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type" yaml:"type"`
	PhysicalType string `json:"physical_type" yaml:"physical_type"`
	LogicalType  string `json:"logical_type" yaml:"logical_type"`
	Required     bool   `json:"required" yaml:"required"`
	Optional     bool   `json:"optional" yaml:"optional"`
	Repeated     bool   `json:"repeated" yaml:"repeated"`
}

// ExtractSchemaInfo extracts schema information from a Parquet file.
//
// For nested types, field names use dot notation (e.g., "address.street"),
// matching the field names of the records ReadAll produces.
func ExtractSchemaInfo(path string) ([]SchemaInfo, error) {
	reader, err := NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = reader.Close() }()

	var infos []SchemaInfo
	for _, field := range reader.Schema().Fields() {
		infos = append(infos, extractFieldInfo(field, "", false)...)
	}
	return infos, nil
}

// extractFieldInfo recursively extracts the leaf columns under field,
// tracking whether any parent is repeated.
func extractFieldInfo(field parquet.Field, prefix string, parentRepeated bool) []SchemaInfo {
	fieldName := field.Name()
	if prefix != "" {
		fieldName = prefix + "." + fieldName
	}
	isRepeated := parentRepeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		var infos []SchemaInfo
		for _, child := range children {
			infos = append(infos, extractFieldInfo(child, fieldName, isRepeated)...)
		}
		return infos
	}

	col := column{name: fieldName, kind: field.Type().Kind(), repeated: isRepeated}
	col.elem = kindType(col.kind)

	return []SchemaInfo{{
		Name:         fieldName,
		Type:         col.fieldType().String(),
		PhysicalType: getPhysicalType(field),
		LogicalType:  getLogicalType(field),
		Required:     field.Required(),
		Optional:     field.Optional(),
		Repeated:     isRepeated,
	}}
}

// SchemaRecords converts schema information to a list of records so it can
// be rendered by the output formatters or bound to a query variable.
func SchemaRecords(infos []SchemaInfo) (*query.List, error) {
	items := make([]query.Value, len(infos))
	for i, info := range infos {
		items[i] = query.NewRecord(
			[]string{"name", "type", "physical_type", "logical_type", "required", "optional", "repeated"},
			[]query.Value{
				query.String(info.Name),
				query.String(info.Type),
				query.String(info.PhysicalType),
				query.String(info.LogicalType),
				query.Bool(info.Required),
				query.Bool(info.Optional),
				query.Bool(info.Repeated),
			},
		)
	}
	return query.NewList(items)
}

// getPhysicalType returns the physical type name of a Parquet field.
func getPhysicalType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// getLogicalType returns the logical type name of a Parquet field.
func getLogicalType(field parquet.Field) string {
	if field.Type() == nil {
		return ""
	}

	logicalType := field.Type().LogicalType()
	if logicalType == nil {
		return ""
	}
	return logicalType.String()
}
