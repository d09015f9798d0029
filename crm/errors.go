package crm

import "errors"

// ErrNotFound meldet eine fehlgeschlagene Auflösung (Kontakt, Studie, Case,
// Option). Eine Auflösung ohne Treffer ist für die Migration kein harter
// Fehler: der Orchestrator loggt und überspringt die Zeile.
var ErrNotFound = errors.New("not found")
