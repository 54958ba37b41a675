package catalog

import "github.com/roach88/kitty/internal/ir"

// Well-known category identifiers. These feed the registry's alias table so
// selectors written as identifiers still resolve.
const (
	StringTestsID = "StringTests"
	MathTestsID   = "MathTests"
	ArrayTestsID  = "ArrayTests"
)

// Display names of the built-in categories.
const (
	StringCategoryName = "String Operations"
	MathCategoryName   = "Mathematical Operations"
	ArrayCategoryName  = "Array Operations"
)

// Builtin returns the built-in categories in their default order.
func Builtin() []TestCategory {
	return []TestCategory{StringTests(), MathTests(), ArrayTests()}
}

// StringTests covers concatenate, reverse and countOccurrences.
func StringTests() TestCategory {
	return MustCategory(StringCategoryName, StringTestsID, []TestCase{
		{
			Name:        "Concatenate Simple Strings",
			Description: "Concatenate two simple strings",
			Operation:   "concatenate",
			Args:        []ir.IRValue{ir.IRString("Hello, "), ir.IRString("World!")},
			Expected:    ir.IRString("Hello, World!"),
		},
		{
			Name:        "Concatenate Empty Strings",
			Description: "Concatenate with an empty string",
			Operation:   "concatenate",
			Args:        []ir.IRValue{ir.IRString(""), ir.IRString("Test")},
			Expected:    ir.IRString("Test"),
		},
		{
			Name:        "Concatenate Special Characters",
			Description: "Concatenate strings with special characters",
			Operation:   "concatenate",
			Args:        []ir.IRValue{ir.IRString("Special: $@#%"), ir.IRString(" Characters: 😀🔥")},
			Expected:    ir.IRString("Special: $@#% Characters: 😀🔥"),
		},
		{
			Name:        "Reverse Simple String",
			Description: "Reverse a simple string",
			Operation:   "reverse",
			Args:        []ir.IRValue{ir.IRString("Hello")},
			Expected:    ir.IRString("olleH"),
		},
		{
			Name:        "Reverse Empty String",
			Description: "Reverse an empty string",
			Operation:   "reverse",
			Args:        []ir.IRValue{ir.IRString("")},
			Expected:    ir.IRString(""),
		},
		{
			Name:        "Reverse Palindrome",
			Description: "Reverse a palindrome",
			Operation:   "reverse",
			Args:        []ir.IRValue{ir.IRString("racecar")},
			Expected:    ir.IRString("racecar"),
		},
		{
			Name:        "Count Letter Occurrences",
			Description: "Count occurrences of a letter",
			Operation:   "countOccurrences",
			Args:        []ir.IRValue{ir.IRString("banana"), ir.IRString("a")},
			Expected:    ir.NewIRInt(3),
		},
		{
			Name:        "Count Non-Existing Character",
			Description: "Count a character that does not occur",
			Operation:   "countOccurrences",
			Args:        []ir.IRValue{ir.IRString("hello world"), ir.IRString("z")},
			Expected:    ir.NewIRInt(0),
		},
		{
			Name:        "Count Space Characters",
			Description: "Count space characters",
			Operation:   "countOccurrences",
			Args:        []ir.IRValue{ir.IRString("this is a test"), ir.IRString(" ")},
			Expected:    ir.NewIRInt(3),
		},
	})
}

// MathTests covers add, multiply, power and fibonacci, including values
// wider than 64 bits.
func MathTests() TestCategory {
	return MustCategory(MathCategoryName, MathTestsID, []TestCase{
		{
			Name:        "Add Positive Numbers",
			Description: "Add two positive numbers",
			Operation:   "add",
			Args:        []ir.IRValue{ir.NewIRInt(5), ir.NewIRInt(7)},
			Expected:    ir.NewIRInt(12),
		},
		{
			Name:        "Add With Zero",
			Description: "Add zero to a number",
			Operation:   "add",
			Args:        []ir.IRValue{ir.NewIRInt(10), ir.NewIRInt(0)},
			Expected:    ir.NewIRInt(10),
		},
		{
			Name:        "Add Large Numbers",
			Description: "Add numbers wider than 64 bits",
			Operation:   "add",
			Args: []ir.IRValue{
				ir.MustParseIRInt("1000000000000000000000"),
				ir.MustParseIRInt("2000000000000000000000"),
			},
			Expected: ir.MustParseIRInt("3000000000000000000000"),
		},
		{
			Name:        "Multiply Positive Numbers",
			Description: "Multiply two positive numbers",
			Operation:   "multiply",
			Args:        []ir.IRValue{ir.NewIRInt(3), ir.NewIRInt(4)},
			Expected:    ir.NewIRInt(12),
		},
		{
			Name:        "Multiply By Zero",
			Description: "Multiply a number by zero",
			Operation:   "multiply",
			Args:        []ir.IRValue{ir.NewIRInt(5), ir.NewIRInt(0)},
			Expected:    ir.NewIRInt(0),
		},
		{
			Name:        "Power Basic",
			Description: "Calculate power with small exponent",
			Operation:   "power",
			Args:        []ir.IRValue{ir.NewIRInt(2), ir.NewIRInt(3)},
			Expected:    ir.NewIRInt(8),
		},
		{
			Name:        "Power With Zero Exponent",
			Description: "Calculate power with zero exponent",
			Operation:   "power",
			Args:        []ir.IRValue{ir.NewIRInt(5), ir.NewIRInt(0)},
			Expected:    ir.NewIRInt(1),
		},
		{
			Name:        "Fibonacci Zero",
			Description: "Calculate fibonacci of 0",
			Operation:   "fibonacci",
			Args:        []ir.IRValue{ir.NewIRInt(0)},
			Expected:    ir.NewIRInt(0),
		},
		{
			Name:        "Fibonacci Small Number",
			Description: "Calculate fibonacci of 7",
			Operation:   "fibonacci",
			Args:        []ir.IRValue{ir.NewIRInt(7)},
			Expected:    ir.NewIRInt(13),
		},
		{
			Name:        "Fibonacci Medium Number",
			Description: "Calculate fibonacci of 10",
			Operation:   "fibonacci",
			Args:        []ir.IRValue{ir.NewIRInt(10)},
			Expected:    ir.NewIRInt(55),
		},
	})
}

// ArrayTests covers sumArray, findMax and sort.
func ArrayTests() TestCategory {
	return MustCategory(ArrayCategoryName, ArrayTestsID, []TestCase{
		{
			Name:        "Sum Empty Array",
			Description: "Sum of an empty array is zero",
			Operation:   "sumArray",
			Args:        []ir.IRValue{ir.Ints()},
			Expected:    ir.NewIRInt(0),
		},
		{
			Name:        "Sum Positive Numbers",
			Description: "Sum an array of positive numbers",
			Operation:   "sumArray",
			Args:        []ir.IRValue{ir.Ints(1, 2, 3, 4, 5)},
			Expected:    ir.NewIRInt(15),
		},
		{
			Name:        "Sum Mixed Numbers",
			Description: "Sum an array of larger numbers",
			Operation:   "sumArray",
			Args:        []ir.IRValue{ir.Ints(100, 200, 300)},
			Expected:    ir.NewIRInt(600),
		},
		{
			Name:        "Find Max in Single Element Array",
			Description: "Maximum of a single element array",
			Operation:   "findMax",
			Args:        []ir.IRValue{ir.Ints(42)},
			Expected:    ir.NewIRInt(42),
		},
		{
			Name:        "Find Max in Ordered Array",
			Description: "Maximum of an ascending array",
			Operation:   "findMax",
			Args:        []ir.IRValue{ir.Ints(1, 2, 3, 4, 5)},
			Expected:    ir.NewIRInt(5),
		},
		{
			Name:        "Find Max in Unordered Array",
			Description: "Maximum of an unordered array",
			Operation:   "findMax",
			Args:        []ir.IRValue{ir.Ints(3, 8, 1, 6, 2)},
			Expected:    ir.NewIRInt(8),
		},
		{
			Name:        "Sort Empty Array",
			Description: "Sorting an empty array yields an empty array",
			Operation:   "sort",
			Args:        []ir.IRValue{ir.Ints()},
			Expected:    ir.Ints(),
		},
		{
			Name:        "Sort Already Sorted Array",
			Description: "Sorting a sorted array keeps it unchanged",
			Operation:   "sort",
			Args:        []ir.IRValue{ir.Ints(1, 2, 3, 4, 5)},
			Expected:    ir.Ints(1, 2, 3, 4, 5),
		},
		{
			Name:        "Sort Reverse Sorted Array",
			Description: "Sort a descending array",
			Operation:   "sort",
			Args:        []ir.IRValue{ir.Ints(5, 4, 3, 2, 1)},
			Expected:    ir.Ints(1, 2, 3, 4, 5),
		},
		{
			Name:        "Sort Unordered Array",
			Description: "Sort an array with duplicates",
			Operation:   "sort",
			Args:        []ir.IRValue{ir.Ints(3, 1, 4, 1, 5, 9, 2, 6)},
			Expected:    ir.Ints(1, 1, 2, 3, 4, 5, 6, 9),
		},
	})
}
