package models

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/trebuchet-org/lvgdeploy/internal/domain"
)

// Variant identifies a constructor signature of the contract
type Variant string

const (
	VariantPool         Variant = "pool"
	VariantPoolProvider Variant = "pool+provider"
	VariantProviderWeth Variant = "provider+weth"
)

// Argument names, also used as keys in [networks.<id>.addresses]
const (
	ArgLendingPool = "lending_pool"
	ArgProvider    = "provider"
	ArgWETH        = "weth"
)

// ConstructorArg is a single named constructor argument
type ConstructorArg struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ArgSpec is the ordered constructor argument list of one variant.
// Order matches the on-chain constructor ABI.
type ArgSpec interface {
	Variant() Variant
	Args() []ConstructorArg
}

// PoolArgs is the original single-argument constructor(lendingPool)
type PoolArgs struct {
	LendingPool string
}

func (PoolArgs) Variant() Variant { return VariantPool }

func (a PoolArgs) Args() []ConstructorArg {
	return []ConstructorArg{
		{Name: ArgLendingPool, Value: a.LendingPool},
	}
}

// PoolProviderArgs is constructor(lendingPool, provider)
type PoolProviderArgs struct {
	LendingPool string
	Provider    string
}

func (PoolProviderArgs) Variant() Variant { return VariantPoolProvider }

func (a PoolProviderArgs) Args() []ConstructorArg {
	return []ConstructorArg{
		{Name: ArgLendingPool, Value: a.LendingPool},
		{Name: ArgProvider, Value: a.Provider},
	}
}

// ProviderWethArgs is constructor(provider, weth)
type ProviderWethArgs struct {
	Provider string
	WETH     string
}

func (ProviderWethArgs) Variant() Variant { return VariantProviderWeth }

func (a ProviderWethArgs) Args() []ConstructorArg {
	return []ConstructorArg{
		{Name: ArgProvider, Value: a.Provider},
		{Name: ArgWETH, Value: a.WETH},
	}
}

// VariantSpec registers a constructor signature
type VariantSpec struct {
	Variant     Variant
	Description string
	Params      []string // argument names in constructor order
	Build       func(values map[string]string) ArgSpec
}

var (
	variantsMu sync.RWMutex
	variants   = map[Variant]VariantSpec{}
)

func init() {
	RegisterVariant(VariantSpec{
		Variant:     VariantPool,
		Description: "constructor(address lendingPool)",
		Params:      []string{ArgLendingPool},
		Build: func(v map[string]string) ArgSpec {
			return PoolArgs{LendingPool: v[ArgLendingPool]}
		},
	})
	RegisterVariant(VariantSpec{
		Variant:     VariantPoolProvider,
		Description: "constructor(address lendingPool, address provider)",
		Params:      []string{ArgLendingPool, ArgProvider},
		Build: func(v map[string]string) ArgSpec {
			return PoolProviderArgs{LendingPool: v[ArgLendingPool], Provider: v[ArgProvider]}
		},
	})
	RegisterVariant(VariantSpec{
		Variant:     VariantProviderWeth,
		Description: "constructor(address provider, address weth)",
		Params:      []string{ArgProvider, ArgWETH},
		Build: func(v map[string]string) ArgSpec {
			return ProviderWethArgs{Provider: v[ArgProvider], WETH: v[ArgWETH]}
		},
	})
}

// RegisterVariant adds a constructor signature. Registering an existing
// variant replaces it.
func RegisterVariant(spec VariantSpec) {
	variantsMu.Lock()
	defer variantsMu.Unlock()
	variants[spec.Variant] = spec
}

// LookupVariant returns the registered spec for name
func LookupVariant(name string) (VariantSpec, error) {
	variantsMu.RLock()
	defer variantsMu.RUnlock()

	spec, ok := variants[Variant(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		known := make([]string, 0, len(variants))
		for v := range variants {
			known = append(known, string(v))
		}
		sort.Strings(known)
		return VariantSpec{}, domain.NewError(domain.ErrUnknownVariant,
			fmt.Sprintf("%q (known: %s)", name, strings.Join(known, ", ")), nil)
	}
	return spec, nil
}

// Variants returns all registered variants sorted by name
func Variants() []VariantSpec {
	variantsMu.RLock()
	defer variantsMu.RUnlock()

	specs := make([]VariantSpec, 0, len(variants))
	for _, spec := range variants {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Variant < specs[j].Variant
	})
	return specs
}

// EqualArgs reports whether two argument lists are identical in order,
// name and value
func EqualArgs(a, b []ConstructorArg) bool {
	return slices.Equal(a, b)
}

// ArgValues flattens an argument list into a name -> value map
func ArgValues(args []ConstructorArg) map[string]string {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		values[arg.Name] = arg.Value
	}
	return values
}
