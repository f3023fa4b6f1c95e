package mysql

import _ "embed"

//go:embed schema.sql
var schemaSQL string

const upsertDocumentSQL = `
INSERT INTO documents
  (collection, doc_key, schema_version, body)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  schema_version = VALUES(schema_version),
  body           = VALUES(body),
  updated_at     = CURRENT_TIMESTAMP
`

const getDocumentSQL = `
SELECT body
FROM documents
WHERE collection = ? AND doc_key = ?
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Field filters compare against the unquoted JSON value so numbers, strings
// and booleans all match their text form.
const fieldExpr = "JSON_UNQUOTE(JSON_EXTRACT(body, ?))"

// Range filters cast. Numbers compare as decimals; dates are stored as UTC
// RFC3339 strings whose fraction varies in width, so they compare as DATETIME.
const numericFieldExpr = "CAST(JSON_EXTRACT(body, ?) AS DECIMAL(20,6))"

const timeFieldExpr = "CAST(REPLACE(JSON_UNQUOTE(JSON_EXTRACT(body, ?)), 'Z', '') AS DATETIME(6))"

// timeBound is the DATETIME(6) literal a time range filter binds.
const timeBound = "2006-01-02 15:04:05.000000"

const findDocumentsPrefix = "SELECT body FROM documents WHERE collection = ?"

const countDocumentsPrefix = "SELECT COUNT(*) FROM documents WHERE collection = ?"

const groupCountSQL = `
SELECT COALESCE(JSON_UNQUOTE(JSON_EXTRACT(body, ?)), '') AS k, COUNT(*) AS n
FROM documents
WHERE collection = ?
GROUP BY k
ORDER BY n DESC, k
`
