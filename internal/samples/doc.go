// Package samples declares concrete discriminated unions on top of dsl.Union.
// Each union is exposed as a closed Go sum type: a sealed interface, one
// struct per variant, and an Unknown* struct for discriminants added after
// this code was generated.
package samples
