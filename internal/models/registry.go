package models

// ModelRegistry lists every model whose table is created at startup.
var ModelRegistry = []interface{}{
	&WaitlistEntry{},
}
