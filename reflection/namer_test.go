package reflection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/propmeta/typeinfo"
)

func TestNamingRules(t *testing.T) {
	tests := []struct {
		name     string
		getter   bool
		setter   bool
		property string
	}{
		{"getName", true, false, "name"},
		{"GetName", true, false, "name"},
		{"isActive", true, false, "active"},
		{"IsActive", true, false, "active"},
		{"setName", false, true, "name"},
		{"SetName", false, true, "name"},
		{"getURL", true, false, "URL"},
		{"setX", false, true, "x"},
		{"get", false, false, ""},
		{"is", false, false, ""},
		{"set", false, false, ""},
		{"name", false, false, ""},
		{"issue", true, false, "sue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.getter, IsGetter(tt.name))
			assert.Equal(t, tt.setter, IsSetter(tt.name))
			assert.Equal(t, tt.getter || tt.setter, IsProperty(tt.name))

			prop, err := MethodToProperty(tt.name)
			if tt.property == "" {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.property, prop)
		})
	}
}

func TestValidPropertyNames(t *testing.T) {
	assert.True(t, isValidPropertyName("name"))
	assert.False(t, isValidPropertyName("$hidden"))
	assert.False(t, isValidPropertyName("serialVersionUID"))
	assert.False(t, isValidPropertyName("class"))
}

func TestGetterAndSetterShapes(t *testing.T) {
	assert.True(t, isGetterMethod(getter("getName", stringType, "name")))
	assert.True(t, isGetterMethod(getter("isActive", boolType, "active")))
	assert.False(t, isGetterMethod(getter("isActive", stringType, "active")), "is-getters must return bool")
	assert.False(t, isGetterMethod(setter("getName", stringType, "name")), "getters take no arguments")

	assert.True(t, isSetterMethod(setter("setName", stringType, "name")))
	assert.False(t, isSetterMethod(getter("setName", typeinfo.Void, "name")), "setters take one argument")
	assert.False(t, isSetterMethod(&typeinfo.Method{
		Name:   "setPair",
		Params: []*typeinfo.Type{stringType, intType},
	}))
}
