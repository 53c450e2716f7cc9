package menu

import "context"

// Repository resolves the menu identifiers assigned to a username.
// Unknown usernames yield an empty list.
type Repository interface {
	MenusFor(ctx context.Context, username string) ([]string, error)
}
