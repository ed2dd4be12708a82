// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"sort"
)

// ID identifies one algorithm. Values are stable: they are persisted in
// options files and logs.
type ID int

// Kind is the problem family an algorithm applies to.
type Kind int

const (
	KindLCP Kind = iota
	KindFrictionContact
	KindLocal
	KindMLCP
	KindSOCLCP
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindLCP:
		return "LCP"
	case KindFrictionContact:
		return "friction-contact"
	case KindLocal:
		return "local"
	case KindMLCP:
		return "MLCP"
	case KindSOCLCP:
		return "SOCLCP"
	default:
		return "unknown"
	}
}

// MLCP algorithms.
const (
	MLCPPGS            ID = 100
	MLCPEnum           ID = 105
	MLCPDirectEnum     ID = 107
	MLCPDirectEnumPath ID = 111
	MLCPNewtonFB       ID = 112
)

// LCP algorithms.
const (
	LCPPGS      ID = 202
	LCPNewtonFB ID = 209
	LCPEnum     ID = 213
)

// Friction-contact global algorithms.
const (
	FC3DNSGS              ID = 500
	FC3DDeSaxceFixedPoint ID = 505
	FC3DTrescaFixedPoint  ID = 510
	FC2DNSGS              ID = 2502
)

// Local per-contact algorithms.
const (
	FC3DAlartCurnierNewton                  ID = 550
	FC3DFischerBurmeisterNewton             ID = 551
	FC3DProjectionOnConeWithDiagonalization ID = 552
	FC3DProjectionOnCone                    ID = 553
	FC3DProjectionOnConeWithLocalIteration  ID = 554
	FC3DProjectionOnConeWithRegularization  ID = 555
	FC3DProjectionOnCylinder                ID = 557
	FC2DProjectionOnCone                    ID = 2550
)

// SOCLCP algorithms.
const (
	SOCLCPFixedPointProjection ID = 1101
)

type entry struct {
	name string
	kind Kind
}

var registry = map[ID]entry{
	MLCPPGS:            {"MLCP_PGS", KindMLCP},
	MLCPEnum:           {"MLCP_ENUM", KindMLCP},
	MLCPDirectEnum:     {"MLCP_DIRECT_ENUM", KindMLCP},
	MLCPDirectEnumPath: {"MLCP_DIRECT_ENUM_PATH", KindMLCP},
	MLCPNewtonFB:       {"MLCP_FB", KindMLCP},

	LCPPGS:      {"LCP_PGS", KindLCP},
	LCPNewtonFB: {"LCP_NEWTONFB", KindLCP},
	LCPEnum:     {"LCP_ENUM", KindLCP},

	FC3DNSGS:              {"FC3D_NSGS", KindFrictionContact},
	FC3DDeSaxceFixedPoint: {"FC3D_DSFP", KindFrictionContact},
	FC3DTrescaFixedPoint:  {"FC3D_TFP", KindFrictionContact},
	FC2DNSGS:              {"FC2D_NSGS", KindFrictionContact},

	FC3DAlartCurnierNewton:                  {"FC3D_AlartCurnierNewton", KindLocal},
	FC3DFischerBurmeisterNewton:             {"FC3D_FischerBurmeisterNewton", KindLocal},
	FC3DProjectionOnConeWithDiagonalization: {"FC3D_ProjectionOnConeWithDiagonalization", KindLocal},
	FC3DProjectionOnCone:                    {"FC3D_ProjectionOnCone", KindLocal},
	FC3DProjectionOnConeWithLocalIteration:  {"FC3D_ProjectionOnConeWithLocalIteration", KindLocal},
	FC3DProjectionOnConeWithRegularization:  {"FC3D_ProjectionOnConeWithRegularization", KindLocal},
	FC3DProjectionOnCylinder:                {"FC3D_ProjectionOnCylinder", KindLocal},
	FC2DProjectionOnCone:                    {"FC2D_ProjectionOnCone", KindLocal},

	SOCLCPFixedPointProjection: {"SOCLCP_VI_FPP", KindSOCLCP},
}

// String returns the registered name, or "ID(<n>)" for unknown values.
func (id ID) String() string {
	if e, ok := registry[id]; ok {
		return e.name
	}

	return fmt.Sprintf("ID(%d)", int(id))
}

// Known reports whether id is registered.
func (id ID) Known() bool {
	_, ok := registry[id]

	return ok
}

// Kind returns the problem family of id.
//
// Errors: ErrUnknownSolver.
func (id ID) Kind() (Kind, error) {
	e, ok := registry[id]
	if !ok {
		return 0, fmt.Errorf("%v: %w", id, ErrUnknownSolver)
	}

	return e.kind, nil
}

// Lookup resolves a registered name.
//
// Errors: ErrUnknownSolver.
func Lookup(name string) (ID, error) {
	for id, e := range registry {
		if e.name == name {
			return id, nil
		}
	}

	return 0, fmt.Errorf("%q: %w", name, ErrUnknownSolver)
}

// IDs returns every registered identifier of the given kind, ascending.
func IDs(kind Kind) []ID {
	var out []ID
	for id, e := range registry {
		if e.kind == kind {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
