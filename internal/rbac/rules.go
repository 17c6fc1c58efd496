package rbac

// Default portal policy. Coordinators carry everything faculty can do plus
// release and window management; admin is unrestricted.
var RolePermissions = map[string][]string{
	"student": {
		"phase:view",
		"window:view",
		"evaluation:view-own",
		"submission:view-own",
		"asset:upload",
		"asset:view",
		"user:change_password",
	},
	"faculty": {
		"phase:view",
		"window:view",
		"submission:view-all",
		"evaluation:grade",
		"evaluation:view-all",
		"asset:view",
		"users:list",
		"user:change_password",
	},
	"coordinator": {
		"phase:view",
		"window:view",
		"window:manage",
		"submission:view-all",
		"evaluation:*",
		"asset:view",
		"users:*",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
