package organization

import "context"

type Repository interface {
	FindByID(context context.Context, id string) (*Organization, error)
	Update(context context.Context, org *Organization) error
}
