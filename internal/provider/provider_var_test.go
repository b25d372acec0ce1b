package provider

var (
	_ Provider = (*YAMLProvider)(nil)
	_ Provider = (*SQLiteProvider)(nil)
	_ Provider = (*MemoryProvider)(nil)
)
