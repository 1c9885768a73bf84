package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldItemKind      = "item_kind"
	FieldItemID        = "item_id"
	FieldAmount        = "amount"
	FieldSource        = "source"
	FieldDescription   = "description"
	FieldCategory      = "category"
	FieldSlot          = "slot"
	FieldBackend       = "backend"
	FieldCount         = "count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentBudget  = "budget"
	ComponentPersist = "persistence"
	ComponentStorage = "storage"
	ComponentSheets  = "sheets"
	ComponentBackend = "backend"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpRead      = "read"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpBeginEdit = "begin_edit"
	OpCancel    = "cancel_edit"
	OpLoad      = "load"
	OpSave      = "save"
	OpValidate  = "validate"
	OpRender    = "render"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// Item kinds
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithIncome adds income item fields
func (f LogFields) WithIncome(id int64, source, amount string) LogFields {
	f[FieldItemKind] = KindIncome
	f[FieldItemID] = id
	f[FieldSource] = source
	f[FieldAmount] = amount
	return f
}

// WithExpense adds expense item fields
func (f LogFields) WithExpense(id int64, desc, amount, category string) LogFields {
	f[FieldItemKind] = KindExpense
	f[FieldItemID] = id
	f[FieldDescription] = desc
	f[FieldAmount] = amount
	f[FieldCategory] = category
	return f
}

// WithItem adds the kind and id of an item without its content
func (f LogFields) WithItem(kind string, id int64) LogFields {
	f[FieldItemKind] = kind
	f[FieldItemID] = id
	return f
}

func (f LogFields) WithSlot(key string) LogFields {
	f[FieldSlot] = key
	return f
}

func (f LogFields) WithPath(path string) LogFields {
	f[FieldPath] = path
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
