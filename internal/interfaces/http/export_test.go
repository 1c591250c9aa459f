package http

// WriteError expone writeError a los tests del paquete http_test.
var WriteError = writeError
