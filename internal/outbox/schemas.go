package outbox

const recordCreatedSchema = `{
  "type": "object",
  "title": "RecordCreated",
  "properties": {
    "record_id": {"type": "string"},
    "researcher_id": {"type": "string"},
    "kind": {"type": "string"},
    "title": {"type": "string"},
    "status": {"type": "string"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["record_id", "researcher_id", "kind", "title", "status", "occurred_at"],
  "additionalProperties": false
}`

const recordUpdatedSchema = `{
  "type": "object",
  "title": "RecordUpdated",
  "properties": {
    "record_id": {"type": "string"},
    "researcher_id": {"type": "string"},
    "kind": {"type": "string"},
    "status": {"type": "string"},
    "updated_at": {"type": "string", "format": "date-time"}
  },
  "required": ["record_id", "researcher_id", "kind", "status", "updated_at"],
  "additionalProperties": false
}`

const recordDeletedSchema = `{
  "type": "object",
  "title": "RecordDeleted",
  "properties": {
    "record_id": {"type": "string"},
    "researcher_id": {"type": "string"},
    "kind": {"type": "string"},
    "deleted_at": {"type": "string", "format": "date-time"}
  },
  "required": ["record_id", "researcher_id", "kind", "deleted_at"],
  "additionalProperties": false
}`
