package apirequest_test

import (
	"context"
	"fmt"

	apirequest "github.com/pyfile/MakeItxiaGreatAgain"
)

// Example demonstrates the hook lifecycle against an in-process transport.
func Example() {
	transport := func(ctx context.Context, req apirequest.Request) (*apirequest.Envelope, error) {
		return &apirequest.Envelope{Code: 0, Message: "ok", Payload: []string{"order-1", "order-2"}}, nil
	}

	done := make(chan struct{})
	hook := apirequest.New(transport,
		apirequest.WithPath("/order/list"),
		apirequest.WithManual(),
		apirequest.WithOnSuccess(func(env apirequest.Envelope) {
			fmt.Println("loaded:", env.Payload)
			close(done)
		}),
	)
	defer hook.Close()

	hook.Send()
	<-done

	hook.Mutate(func(prev interface{}) interface{} {
		return append(prev.([]string), "order-3")
	})
	fmt.Println("after mutate:", hook.Payload())

	// Output:
	// loaded: [order-1 order-2]
	// after mutate: [order-1 order-2 order-3]
}
