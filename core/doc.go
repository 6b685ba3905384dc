// Package core centralizes the domain contracts of TerraMesh: the Envelope
// exchanged between pipeline stages (a closed, typed payload sum), the
// Agent and Outbox interfaces every stage implements against, session state
// with its store contract, and the error taxonomy of the dispatch kernel.
//
// Keeping the contracts here and the implementations in sibling packages
// (bus, session, agent) prevents higher-level packages from depending on
// concrete infrastructure.
package core
