package assets

import "github.com/spaghettifunk/gaps/engine/resources"

type Loader interface {
	Load(path string, params interface{}) (*resources.Resource, error) // `interface{}` here allows loaders to take type specific params
	Unload(*resources.Resource) error
}
