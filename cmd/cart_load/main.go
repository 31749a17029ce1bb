package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/restaurant-cart/internal/adapter/handler"
)

func main() {
	addr := flag.String("addr", "localhost:50051", "cart gRPC address")
	sessions := flag.Int("sessions", 10, "concurrent sessions")
	adds := flag.Int("adds", 50, "concurrent adds of the same dish per session")
	flag.Parse()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	client := handler.NewCartClient(conn)
	ctx := context.Background()

	var failCount atomic.Int32
	var wg sync.WaitGroup
	ids := make([]string, *sessions)
	start := time.Now()

	for s := 0; s < *sessions; s++ {
		ids[s] = uuid.NewString()
		sctx := handler.WithSession(ctx, ids[s])

		for i := 0; i < *adds; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := client.AddItem(sctx, &handler.AddItemRequest{
					ID:           "burger",
					Name:         "Burger",
					Price:        decimal.RequireFromString("8.00"),
					Options:      "cheese",
					Instructions: "no onions",
				})
				if err != nil {
					failCount.Add(1)
				}
			}()
		}
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Every session must hold exactly one line with quantity == adds
	lost := 0
	for _, id := range ids {
		cart, err := client.GetCart(handler.WithSession(ctx, id))
		if err != nil {
			log.Fatalf("get cart %s: %v", id, err)
		}
		if len(cart.Items) != 1 || cart.ItemCount != *adds {
			lost++
			fmt.Printf("session %s: %d lines, %d items\n", id, len(cart.Items), cart.ItemCount)
		}
	}

	fmt.Println("========== CART LOAD RESULTS ==========")
	fmt.Printf("Sessions:         %d\n", *sessions)
	fmt.Printf("Adds per session: %d\n", *adds)
	fmt.Printf("Failed calls:     %d\n", failCount.Load())
	fmt.Printf("Inconsistent:     %d\n", lost)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("=======================================")

	if lost == 0 && failCount.Load() == 0 {
		fmt.Println("PASS: no lost increments")
	} else {
		fmt.Println("FAIL: lost increments or failed calls")
	}
}
