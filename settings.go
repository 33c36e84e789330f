package spindle

// Settings is the process-wide configuration consumed by the
// conversation loop and the response segmenter. Settings are replaced
// wholesale through an explicit update operation, never field by field.
type Settings struct {
	// Streaming selects streaming generation over blocking calls.
	Streaming bool `json:"streaming"`
	// EnableCoT enables reasoning/answer segmentation and the
	// reasoning-eliciting prompt augmentation.
	EnableCoT bool `json:"enableCoT"`
	// ShowThinking controls whether reasoning text is surfaced to the
	// renderer. Ignored unless EnableCoT is set.
	ShowThinking bool `json:"showThinking"`
}
