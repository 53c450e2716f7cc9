// Package mockdata holds the fixture tables served by the mock backend.
package mockdata

// User is one row of the user table.
type User struct {
	ID       int64
	Username string
	Password string
	RealName string
	Roles    []string
}

// CodeSet lists the permission codes granted to a username.
type CodeSet struct {
	Username string
	Codes    []string
}

// MenuSet lists the menu identifiers visible to a username.
type MenuSet struct {
	Username string
	Menus    []string
}

// Dataset is the full set of read-only tables loaded at startup.
type Dataset struct {
	Users []User
	Codes []CodeSet
	Menus []MenuSet
}

// Default returns a fresh copy of the built-in fixtures.
func Default() Dataset {
	return Dataset{
		Users: []User{
			{ID: 0, Username: "vben", Password: "123456", RealName: "Vben", Roles: []string{"super"}},
			{ID: 1, Username: "admin", Password: "123456", RealName: "Admin", Roles: []string{"admin"}},
			{ID: 2, Username: "jack", Password: "123456", RealName: "Jack", Roles: []string{"user"}},
		},
		Codes: []CodeSet{
			{Username: "vben", Codes: []string{"AC_100100", "AC_100110", "AC_100120", "AC_100010"}},
			{Username: "admin", Codes: []string{"AC_100010", "AC_100020", "AC_100030"}},
			{Username: "jack", Codes: []string{"AC_1000001", "AC_1000002"}},
		},
		Menus: []MenuSet{
			{Username: "vben", Menus: []string{"menu1", "menu2"}},
			{Username: "admin", Menus: []string{"menu3", "menu4"}},
			{Username: "jack", Menus: []string{"menu5", "menu6"}},
		},
	}
}

// Clone deep-copies d so the copy shares no slices with the original.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Users: make([]User, len(d.Users)),
		Codes: make([]CodeSet, len(d.Codes)),
		Menus: make([]MenuSet, len(d.Menus)),
	}
	for i, u := range d.Users {
		u.Roles = CopyStrings(u.Roles)
		out.Users[i] = u
	}
	for i, c := range d.Codes {
		out.Codes[i] = CodeSet{Username: c.Username, Codes: CopyStrings(c.Codes)}
	}
	for i, m := range d.Menus {
		out.Menus[i] = MenuSet{Username: m.Username, Menus: CopyStrings(m.Menus)}
	}
	return out
}

// CopyStrings copies s, returning an empty non-nil slice for nil input
// so JSON encodes it as [] rather than null.
func CopyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
