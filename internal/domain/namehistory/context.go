package namehistory

import "context"

// ContextKey nombre del flag con el que el llamador pide resolver nombres históricos.
// También es el nombre del query param aceptado por la API.
const ContextKey = "use_partner_name_history"

type ctxKey struct{}

// WithNameHistory devuelve un contexto que activa la resolución histórica.
func WithNameHistory(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, true)
}

// WithoutNameHistory desactiva explícitamente la resolución histórica.
func WithoutNameHistory(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, false)
}

// Enabled informa si el contexto tiene el flag activo.
func Enabled(ctx context.Context) bool {
	v, _ := ctx.Value(ctxKey{}).(bool)
	return v
}
