package postgres

// NewWithPool builds a Storage over an already connected pool.
var NewWithPool = newWithPool
