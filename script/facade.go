package script

// BucketFacade is the abstract storage collaborator SELECT/READ/
// WRITE/APPEND/DELETE delegate to (§4.6, §1 "the VM interacts via an
// abstract bucket facade"). The VM never touches storage directly.
type BucketFacade interface {
	Select(bucketID [16]byte) error
	Read(slot uint16) ([]byte, error)
	Write(slot uint16, value []byte) error
	Append(value []byte) (slot uint16, err error)
	Delete(slot uint16) error
}

// NoBucketFacade rejects every operation; used when a caller has no
// storage backend wired up (scripts that only use allow_bucket_actions
// for arithmetic/crypto still construct a VM with one of these).
type NoBucketFacade struct{}

func (NoBucketFacade) Select(bucketID [16]byte) error       { return ErrCapabilityDenied{Kind: CapBucketActions} }
func (NoBucketFacade) Read(slot uint16) ([]byte, error)     { return nil, ErrCapabilityDenied{Kind: CapBucketActions} }
func (NoBucketFacade) Write(slot uint16, value []byte) error { return ErrCapabilityDenied{Kind: CapBucketActions} }
func (NoBucketFacade) Append(value []byte) (uint16, error) {
	return 0, ErrCapabilityDenied{Kind: CapBucketActions}
}
func (NoBucketFacade) Delete(slot uint16) error { return ErrCapabilityDenied{Kind: CapBucketActions} }
