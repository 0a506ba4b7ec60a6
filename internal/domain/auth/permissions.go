package auth

const (
	RoleAdmin    = "admin"
	RoleRRHH     = "rrhh"
	RoleConsulta = "consulta"
)

const (
	PermContractsRead    = "contracts.read"
	PermContractsWrite   = "contracts.write"
	PermContractsDelete  = "contracts.delete"
	PermContractsApprove = "contracts.approve"
	PermContractsExport  = "contracts.export"
	PermNovedadesRead    = "novedades.read"
	PermNovedadesWrite   = "novedades.write"
	PermPeriodsRead      = "periods.read"
	PermPeriodsExtend    = "periods.extend"
	PermOnboardingWrite  = "onboarding.write"
	PermUsersRead        = "users.read"
	PermUsersManage      = "users.manage"
	PermAuditRead        = "audit.read"
)

var DefaultPermissions = []string{
	PermContractsRead,
	PermContractsWrite,
	PermContractsDelete,
	PermContractsApprove,
	PermContractsExport,
	PermNovedadesRead,
	PermNovedadesWrite,
	PermPeriodsRead,
	PermPeriodsExtend,
	PermOnboardingWrite,
	PermUsersRead,
	PermUsersManage,
	PermAuditRead,
}

// RolePermissions lists what each role grants directly. Admin also inherits rrhh,
// which inherits consulta (see RoleParents).
var RolePermissions = map[string][]string{
	RoleConsulta: {
		PermContractsRead,
		PermNovedadesRead,
		PermPeriodsRead,
	},
	RoleRRHH: {
		PermContractsWrite,
		PermContractsDelete,
		PermContractsExport,
		PermNovedadesWrite,
		PermPeriodsExtend,
		PermOnboardingWrite,
	},
	RoleAdmin: {
		PermContractsApprove,
		PermUsersRead,
		PermUsersManage,
		PermAuditRead,
	},
}

var RoleParents = map[string]string{
	RoleRRHH:  RoleConsulta,
	RoleAdmin: RoleRRHH,
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
