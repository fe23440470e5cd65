package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUsername   = "username"
	FieldID         = "id"
	FieldType       = "type"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldDate       = "date"
	FieldBillName   = "bill_name"
	FieldFrequency  = "frequency"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAuth      = "auth"
	ComponentBudget    = "budget"
	ComponentLedger    = "ledger"
	ComponentReminders = "reminders"
	ComponentSession   = "session"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentRateLimit = "rate_limit"
)

// Operations defines standard operation names
const (
	OpRegister  = "register"
	OpLogin     = "login"
	OpLogout    = "logout"
	OpCreate    = "create"
	OpDelete    = "delete"
	OpList      = "list"
	OpSetBudget = "set_budget"
	OpRefresh   = "refresh"
	OpNotify    = "notify"
	OpScan      = "scan"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
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

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
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

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithUser adds the acting username
func (f LogFields) WithUser(username string) LogFields {
	f[FieldUsername] = username
	return f
}

// WithTransaction adds transaction fields
func (f LogFields) WithTransaction(txType, category, amount, date string) LogFields {
	f[FieldType] = txType
	f[FieldCategory] = category
	f[FieldAmount] = amount
	f[FieldDate] = date
	return f
}

// WithReminder adds bill reminder fields
func (f LogFields) WithReminder(billName, amount, dueDate, frequency string) LogFields {
	f[FieldBillName] = billName
	f[FieldAmount] = amount
	f[FieldDate] = dueDate
	f[FieldFrequency] = frequency
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldUserAgent] = userAgent
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
