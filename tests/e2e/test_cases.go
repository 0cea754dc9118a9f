package e2e

type TestCase struct {
	Name     string // test case
	Endpoint string // path on the price server
	Path     string // JSON path of the value
	Width    int    // coercion width
	ExpPass  bool   // should the consumer receive an answer?
	Expected string // expected answer (only if ExpPass == true)
}

var TestCases []TestCase

func AddTestCase(testCase *TestCase) {
	if testCase.Width == 0 {
		testCase.Width = 32
	}
	TestCases = append(TestCases, *testCase)
}

func init() {
	AddTestCase(&TestCase{Name: "float price truncated", Endpoint: "/btc", Path: "result.price", ExpPass: true, Expected: "15439"})
	AddTestCase(&TestCase{Name: "numeric string", Endpoint: "/eth", Path: "data.amount", Width: 128, ExpPass: true, Expected: "3120"})
	AddTestCase(&TestCase{Name: "above 64 bits", Endpoint: "/big", Path: "v", Width: 128, ExpPass: true, Expected: "18446744073709551616"})
	AddTestCase(&TestCase{Name: "top-level array", Endpoint: "/arr", Path: "last", Width: 256, ExpPass: true, Expected: "42"})
	AddTestCase(&TestCase{Name: "upstream error", Endpoint: "/down", Path: "v", ExpPass: false})
	AddTestCase(&TestCase{Name: "negative value", Endpoint: "/neg", Path: "v", ExpPass: false})
	AddTestCase(&TestCase{Name: "wider than uint32", Endpoint: "/wide", Path: "v", ExpPass: false})
}
