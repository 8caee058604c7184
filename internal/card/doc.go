/*
Package card captures payment-card data from a reader, replaces it with an opaque
token and keeps only an authenticated ciphertext of the original payload.

# Architecture

  - domain: RawCardData, Token, TransactionRecord, pipeline states and outcomes
  - service: Validator and Tokenizer
  - repository: TransactionRecord persistence (PostgreSQL, MySQL, SQLite)
  - usecase: the capture pipeline and the lookup path
  - http: capture and lookup handlers

# Capture Pipeline

Each capture runs Capturing, Validating, Tokenizing, Persisting and Processing in
order and ends in Done or Aborted(reason). The record is persisted before the
settlement call, so a processing failure leaves a queryable record behind.

# Lookup

Lookup opens the stored ciphertext to check its integrity, wipes the plaintext, and
returns only the token and creation time. A record that fails authentication is
reported as a decryption failure, never as not found.

# Sensitive Data

RawCardData redacts itself when formatted or logged. Plaintext buffers are wiped
once encrypted. Only tokens appear in logs and responses.
*/
package card
