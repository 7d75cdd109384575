package ast

import (
	"math/big"
	"strconv"
)

// Value is an input value: a literal, a list, an object or a variable.
type Value interface {
	Node
	value()
}

type VariableReference struct {
	NodeBase
	Name string
}

func (v *VariableReference) Kind() Kind       { return KindVariableReference }
func (v *VariableReference) node()            {}
func (v *VariableReference) value()           {}
func (v *VariableReference) Children() []Node { return nil }

func (v *VariableReference) DeepCopy() Node {
	return &VariableReference{NodeBase: v.NodeBase.clone(), Name: v.Name}
}

// IntValue keeps the literal as written; it may exceed 64 bits.
type IntValue struct {
	NodeBase
	Value string
}

func (v *IntValue) Kind() Kind       { return KindIntValue }
func (v *IntValue) node()            {}
func (v *IntValue) value()           {}
func (v *IntValue) Children() []Node { return nil }

func (v *IntValue) DeepCopy() Node {
	return &IntValue{NodeBase: v.NodeBase.clone(), Value: v.Value}
}

// BigInt returns the literal as an arbitrary precision integer.
func (v *IntValue) BigInt() *big.Int {
	n, _ := new(big.Int).SetString(v.Value, 10)
	return n
}

type FloatValue struct {
	NodeBase
	Value string
}

func (v *FloatValue) Kind() Kind       { return KindFloatValue }
func (v *FloatValue) node()            {}
func (v *FloatValue) value()           {}
func (v *FloatValue) Children() []Node { return nil }

func (v *FloatValue) DeepCopy() Node {
	return &FloatValue{NodeBase: v.NodeBase.clone(), Value: v.Value}
}

func (v *FloatValue) Float64() (float64, error) {
	return strconv.ParseFloat(v.Value, 64)
}

// StringValue holds the decoded string. Block is set for """ literals.
type StringValue struct {
	NodeBase
	Value string
	Block bool
}

func (v *StringValue) Kind() Kind       { return KindStringValue }
func (v *StringValue) node()            {}
func (v *StringValue) value()           {}
func (v *StringValue) Children() []Node { return nil }

func (v *StringValue) DeepCopy() Node {
	return &StringValue{NodeBase: v.NodeBase.clone(), Value: v.Value, Block: v.Block}
}

type BooleanValue struct {
	NodeBase
	Value bool
}

func (v *BooleanValue) Kind() Kind       { return KindBooleanValue }
func (v *BooleanValue) node()            {}
func (v *BooleanValue) value()           {}
func (v *BooleanValue) Children() []Node { return nil }

func (v *BooleanValue) DeepCopy() Node {
	return &BooleanValue{NodeBase: v.NodeBase.clone(), Value: v.Value}
}

type NullValue struct {
	NodeBase
}

func (v *NullValue) Kind() Kind       { return KindNullValue }
func (v *NullValue) node()            {}
func (v *NullValue) value()           {}
func (v *NullValue) Children() []Node { return nil }

func (v *NullValue) DeepCopy() Node {
	return &NullValue{NodeBase: v.NodeBase.clone()}
}

type EnumValue struct {
	NodeBase
	Name string
}

func (v *EnumValue) Kind() Kind       { return KindEnumValue }
func (v *EnumValue) node()            {}
func (v *EnumValue) value()           {}
func (v *EnumValue) Children() []Node { return nil }

func (v *EnumValue) DeepCopy() Node {
	return &EnumValue{NodeBase: v.NodeBase.clone(), Name: v.Name}
}

type ArrayValue struct {
	NodeBase
	Values []Value
}

func (v *ArrayValue) Kind() Kind { return KindArrayValue }
func (v *ArrayValue) node()      {}
func (v *ArrayValue) value()     {}

func (v *ArrayValue) Children() []Node {
	return appendNodes(nil, v.Values)
}

func (v *ArrayValue) DeepCopy() Node {
	return &ArrayValue{NodeBase: v.NodeBase.clone(), Values: copyNodes(v.Values)}
}

type ObjectValue struct {
	NodeBase
	Fields []*ObjectField
}

func (v *ObjectValue) Kind() Kind { return KindObjectValue }
func (v *ObjectValue) node()      {}
func (v *ObjectValue) value()     {}

func (v *ObjectValue) Children() []Node {
	return appendNodes(nil, v.Fields)
}

func (v *ObjectValue) DeepCopy() Node {
	return &ObjectValue{NodeBase: v.NodeBase.clone(), Fields: copyNodes(v.Fields)}
}

type ObjectField struct {
	NodeBase
	Name  string
	Value Value
}

func (f *ObjectField) Kind() Kind { return KindObjectField }
func (f *ObjectField) node()      {}

func (f *ObjectField) Children() []Node {
	if f.Value == nil {
		return nil
	}
	return []Node{f.Value}
}

func (f *ObjectField) DeepCopy() Node {
	return &ObjectField{NodeBase: f.NodeBase.clone(), Name: f.Name, Value: copyValue(f.Value)}
}

func copyValue(v Value) Value {
	if v == nil {
		return nil
	}
	return v.DeepCopy().(Value)
}
