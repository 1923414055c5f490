package codec_test

import (
	"fmt"
	"log"

	"github.com/ssargent/logan/pkg/codec"
)

// ExampleFrameCodec_basic demonstrates sealing a chunk and opening it again
func ExampleFrameCodec_basic() {
	c, err := codec.New([]byte("0123456789abcdef"), []byte("fedcba9876543210"))
	if err != nil {
		log.Fatal(err)
	}

	payload, err := c.Seal([]byte(`{"c":"hello","f":3,"l":0,"n":"main","i":1,"m":true}` + "\n"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Block aligned: %t\n", len(payload)%16 == 0)

	plain, err := c.Open(payload)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s", plain)

	// Output:
	// Block aligned: true
	// {"c":"hello","f":3,"l":0,"n":"main","i":1,"m":true}
}

// ExampleFrameCodec_Decode shows that a corrupt frame becomes a placeholder record
func ExampleFrameCodec_Decode() {
	c, err := codec.NewFromStrings("0123456789abcdef", "fedcba9876543210")
	if err != nil {
		log.Fatal(err)
	}

	line, err := c.Decode([]byte("not sixteen"))
	fmt.Println(err != nil)
	fmt.Println(len(line) > 0 && line[len(line)-1] == '\n')

	// Output:
	// true
	// true
}

// ExampleParseSecret demonstrates the accepted key encodings
func ExampleParseSecret() {
	raw, _ := codec.ParseSecret("fedcba9876543210")
	hexed, _ := codec.ParseSecret("hex:66656463626139383736353433323130")
	fmt.Println(string(raw) == string(hexed))

	// Output:
	// true
}
