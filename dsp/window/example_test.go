package window

import "fmt"

func ExampleGenerate() {
	w := Generate(TypeHann, 4)
	fmt.Printf("%.2f %.2f %.2f %.2f\n", w[0], w[1], w[2], w[3])
	// Output:
	// 0.00 0.75 0.75 0.00
}

func ExampleGenerate_periodic() {
	w := Generate(TypeHann, 4, WithPeriodic())
	fmt.Printf("%.2f %.2f %.2f %.2f\n", w[0], w[1], w[2], w[3])
	// Output:
	// 0.00 0.50 1.00 0.50
}

func ExampleSquaredOverlapGain() {
	coeffs := Generate(TypeHann, 1024, WithPeriodic())
	gains, _ := SquaredOverlapGain(coeffs, 256)
	fmt.Printf("%.2f\n", gains[0])
	// Output:
	// 1.50
}
