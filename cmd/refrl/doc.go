// Command refrl trains and evaluates the referring-expression policy.
//
//	refrl gen --scenes 64 --objects 5 --data points.jsonl --graphs graphs.json
//	refrl train --config refrl.yaml --data points.jsonl --graphs graphs.json
//	refrl test --config refrl.yaml --data points.jsonl --graphs graphs.json --split test
//
// Without --data the commands use the built in synthetic dataset.
package main
