package checks

import "rorcheck/internal/validator"

// RegisterAll wires every check into the registry in execution order.
// Adding a check means adding a line here; the runner inspects declared
// flags and formats only.
func RegisterAll(reg *validator.Registry) {
	reg.MustRegister(NewStructure())
	reg.MustRegister(NewFields())
	reg.MustRegister(NewDuplicateIDs())
	reg.MustRegister(NewDuplicateURLs())
	reg.MustRegister(NewAddress())
	reg.MustRegister(NewReleaseDuplicates())
	reg.MustRegister(NewProductionDuplicates())
	reg.MustRegister(NewDuplicateValues())
	reg.MustRegister(NewUnprintable())
	reg.MustRegister(NewHygiene())
	reg.MustRegister(NewNewIntegrity())
	reg.MustRegister(NewUpdateIntegrity())
	reg.MustRegister(NewSchema())
}
