package cache

const (
	SetScript        = setScript
	InvalidateScript = invalidateScript
)
