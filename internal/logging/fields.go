package logging

// Standardized structured logging keys.
const (
	FieldComponent     = "component"
	FieldItemID        = "item_id"
	FieldStage         = "stage"
	FieldSource        = "source"
	FieldCorrelationID = "correlation_id"
	FieldEventType     = "event_type"
	FieldErrorHint     = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags anomalies that should stand out in console output.
	FieldAlert = "alert"
	FieldError = "error"

	FieldScript   = "script"
	FieldLanguage = "language"
	FieldSegments = "segments"
	FieldCaptions = "captions"
	FieldOutput   = "output"
	FieldElapsed  = "elapsed"
)
